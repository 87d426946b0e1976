package utils

import (
	"math/rand"
	"path/filepath"
	"strings"
)

// alphaNumeric has no 'w'. Generated names have always used this set, keep it.
const alphaNumeric = "abcdefghijklmnopqrstuvxyz" + "0123456789"

const DefaultRandomLength = 10

// RandomString returns an upper-cased token of length characters drawn
// uniformly from alphaNumeric. A zero length means DefaultRandomLength.
func RandomString(length int) string {
	if length <= 0 {
		length = DefaultRandomLength
	}

	var sb strings.Builder
	sb.Grow(length)
	for i := 0; i < length; i++ {
		sb.WriteByte(alphaNumeric[rand.Intn(len(alphaNumeric))])
	}
	return strings.ToUpper(sb.String())
}

// BaseName returns the file name of path without the part after its last dot.
func BaseName(path string) string {
	name := filepath.Base(path)
	if dot := strings.LastIndex(name, "."); dot != -1 {
		return name[:dot]
	}
	return name
}
