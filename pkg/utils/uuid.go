package utils

import gonanoid "github.com/matoous/go-nanoid/v2"

const characters = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// GenerateID gera um identificador curto usado em execuções de lote e varreduras
func GenerateID() (string, error) {
	return gonanoid.Generate(characters, 10)
}

// MustGenerateID gera um identificador e retorna "unknown" em caso de falha
func MustGenerateID() string {
	id, err := GenerateID()
	if err != nil {
		return "unknown"
	}
	return id
}
