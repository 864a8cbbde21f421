package utils

import "math"

// FloatTolerance é a diferença absoluta abaixo da qual dois valores monetários são considerados iguais
const FloatTolerance = 0.01

func RoundWithTwoDecimalPlace(f float64) float64 {
	if f == 0 {
		return 0
	}

	return math.Round(f*100) / 100
}

// Percentage retorna part/total*100 limitado a 100, ou 0 quando total não é positivo
func Percentage(part, total float64) float64 {
	if total <= 0 {
		return 0
	}

	return math.Min(100, part/total*100)
}

// AlmostEqual compara dois valores com a tolerância padrão
func AlmostEqual(a, b float64) bool {
	return math.Abs(a-b) <= FloatTolerance
}
