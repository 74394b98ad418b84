package game

import (
	"crypto/rand"
	"math/big"
	"strings"
)

const (
	codePrefix   = "FLD-"
	codeAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	codeLength   = 6
)

// NewJoinCode mints a short code players type to find a game, in the
// FLD-XXXXXX shape the console has always printed on handouts.
func NewJoinCode() string {
	var b strings.Builder
	b.WriteString(codePrefix)
	max := big.NewInt(int64(len(codeAlphabet)))
	for i := 0; i < codeLength; i++ {
		n, _ := rand.Int(rand.Reader, max)
		b.WriteByte(codeAlphabet[n.Int64()])
	}
	return b.String()
}

// NormalizeJoinCode upper-cases and trims user input so "fld-ab12cd " and
// "FLD-AB12CD" resolve to the same game.
func NormalizeJoinCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
