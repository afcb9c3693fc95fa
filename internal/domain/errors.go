package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInsufficientCart = errors.New("agrega productos para registrar la venta")
	ErrInsufficientCash = errors.New("el efectivo recibido es insuficiente")
	ErrNoFiles          = errors.New("No se recibieron archivos válidos")
	ErrTooManyImages    = fmt.Errorf("un producto admite como máximo %d imágenes", MaxProductImages)
	ErrInvalidQuantity  = errors.New("la cantidad debe ser un entero mayor o igual a 1")
	ErrMissingPrice     = errors.New("el producto no tiene precio de venta")
	ErrTooManyDecimals  = fmt.Errorf("los montos admiten como máximo %d decimales", MoneyDecimals)
)

// ValidationError reports missing or invalid user input
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Field == "" {
		return msg
	}
	return e.Field + ": " + msg
}

func (e *ValidationError) Unwrap() error { return e.Err }

// NotFoundError reports a referenced document that does not exist
type NotFoundError struct {
	Collection string
	ID         string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Collection, e.ID)
}

// RepositoryError wraps a document store read or write failure
type RepositoryError struct {
	Op  string
	Err error
}

func (e *RepositoryError) Error() string {
	return fmt.Sprintf("repository: %s: %v", e.Op, e.Err)
}

func (e *RepositoryError) Unwrap() error { return e.Err }

// UploadError wraps a media host failure. Message is the host's own text.
type UploadError struct {
	Message string
	Err     error
}

func (e *UploadError) Error() string {
	if e.Message != "" {
		return "upload: " + e.Message
	}
	return fmt.Sprintf("upload: %v", e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }

// PartialSaleError is returned when a sale was persisted but not every
// stock decrement could be applied. It requires manual reconciliation.
type PartialSaleError struct {
	SaleID  string
	Applied []string
	Pending []string
	Err     error
}

func (e *PartialSaleError) Error() string {
	return fmt.Sprintf("sale %s recorded but stock not updated for [%s]: %v",
		e.SaleID, strings.Join(e.Pending, ", "), e.Err)
}

func (e *PartialSaleError) Unwrap() error { return e.Err }

// NewRepositoryError wraps err unless it already carries a domain meaning
func NewRepositoryError(op string, err error) error {
	if err == nil {
		return nil
	}
	var nf *NotFoundError
	if errors.As(err, &nf) {
		return err
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return err
	}
	return &RepositoryError{Op: op, Err: err}
}
