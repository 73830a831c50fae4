package notify

import (
	"log"
	"sync"
)

// Notifier: Kullanıcıya tek satırlık geri bildirim kanalı.
// Sadece bilgilendirme amaçlı; akış kontrolünde hiçbir rolü yok.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// LogNotifier: Bildirimleri sunucu loguna yazar.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (n *LogNotifier) Success(msg string) {
	log.Printf("[BILDIRIM] %s", msg)
}

func (n *LogNotifier) Error(msg string) {
	log.Printf("[BILDIRIM-HATA] %s", msg)
}

// MemoryNotifier: Testler için bildirimleri bellekte biriktirir.
type MemoryNotifier struct {
	mu        sync.Mutex
	Successes []string
	Errors    []string
}

func NewMemoryNotifier() *MemoryNotifier {
	return &MemoryNotifier{}
}

func (n *MemoryNotifier) Success(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Successes = append(n.Successes, msg)
}

func (n *MemoryNotifier) Error(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Errors = append(n.Errors, msg)
}
