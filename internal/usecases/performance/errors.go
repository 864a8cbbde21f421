package performance

import (
	"errors"
	"fmt"
)

// Erros específicos do cálculo de performance
var (
	// Entidades ausentes
	ErrTargetNotFound = errors.New("target not found")
	ErrUserNotFound   = errors.New("user not found")
	ErrTeamNotFound   = errors.New("team not found")

	// Estado inválido
	ErrInvalidTarget    = errors.New("invalid target")
	ErrNotTeamAggregate = errors.New("performance record is not a team aggregate")

	ErrRegionNotImplemented = errors.New("region aggregation not implemented")
)

const (
	CodeNotFound       = "NOT_FOUND"
	CodeInvalidState   = "INVALID_STATE"
	CodeStorage        = "STORAGE"
	CodeNotImplemented = "NOT_IMPLEMENTED"
)

// CalculationError é um erro com contexto adicional do cálculo de uma meta
type CalculationError struct {
	Err      error  // Erro base
	Code     string // Código do erro
	TargetID int64  // Meta envolvida (quando aplicável)
	Details  string // Detalhes adicionais
}

// Error implementa a interface error
func (e *CalculationError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Details)
	}
	return e.Err.Error()
}

// Unwrap retorna o erro subjacente
func (e *CalculationError) Unwrap() error {
	return e.Err
}

func NewCalculationError(err error, code string, targetID int64, details string) *CalculationError {
	return &CalculationError{
		Err:      err,
		Code:     code,
		TargetID: targetID,
		Details:  details,
	}
}

// IsNotFound indica se o erro pertence à família de entidades ausentes
func IsNotFound(err error) bool {
	return errors.Is(err, ErrTargetNotFound) ||
		errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrTeamNotFound)
}

// IsSkippable indica erros que, em lote, são registrados e pulados sem contar como falha
func IsSkippable(err error) bool {
	return IsNotFound(err) || errors.Is(err, ErrRegionNotImplemented)
}

// ErrorCode extrai o código de um CalculationError, ou CodeStorage para erros sem contexto
func ErrorCode(err error) string {
	var calcErr *CalculationError
	if errors.As(err, &calcErr) {
		return calcErr.Code
	}
	return CodeStorage
}
