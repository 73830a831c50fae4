package costing

import (
	"errors"
	"fmt"
)

// ErrNotFound: Referans verilen reçete/yemek/malzeme bulunamadı
var ErrNotFound = errors.New("kayıt bulunamadı")

// ValidationError: Geçersiz girdi (miktar <= 0, porsiyon <= 0 vs.)
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s geçersiz: %s", e.Field, e.Reason)
}

// NegativeStockError: Düşüm stoku sıfırın altına indirecekti, tamamı reddedildi
type NegativeStockError struct {
	IngredientID uint
	Current      float64
	Requested    float64 // istenen delta (negatif)
}

func (e *NegativeStockError) Error() string {
	return fmt.Sprintf("malzeme %d için stok yetersiz: mevcut %.4f, istenen değişim %.4f",
		e.IngredientID, e.Current, e.Requested)
}

// PersistenceError: Depolama çağrısı başarısız oldu
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("depolama hatası (%s): %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// persistErr - nil olmayan hataları PersistenceError'a sarar, ErrNotFound'a dokunmaz
func persistErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) {
		return err
	}
	return &PersistenceError{Op: op, Err: err}
}
