package pkg

import (
	"crypto/rand"
	"errors"
	"fmt"
	"os"
	"unsafe"
)

const randomAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// BytesToString converts without copying; buf must not be modified afterwards.
func BytesToString(buf []byte) string {
	if len(buf) == 0 {
		return ""
	}
	return unsafe.String(unsafe.SliceData(buf), len(buf))
}

// GenerateRandomString returns n alphanumeric characters from crypto/rand,
// suitable for session ids.
func GenerateRandomString(n int) (string, error) {
	if n <= 0 {
		return "", errors.New("length must be positive")
	}

	out := make([]byte, 0, n)
	buf := make([]byte, n+n/4)
	// 248 is the largest multiple of 62 below 256; higher bytes are rejected
	// so every character is equally likely
	const limit = 256 - 256%len(randomAlphabet)
	for len(out) < n {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("read random bytes: %w", err)
		}
		for _, b := range buf {
			if int(b) >= limit {
				continue
			}
			out = append(out, randomAlphabet[int(b)%len(randomAlphabet)])
			if len(out) == n {
				break
			}
		}
	}

	return string(out), nil
}

// PathExists reports whether path exists and is of the expected kind.
func PathExists(path string, isDir bool) (bool, error) {
	stat, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	if isDir && !stat.IsDir() {
		return false, fmt.Errorf("%s is not a directory", path)
	}
	if !isDir && stat.IsDir() {
		return false, fmt.Errorf("%s is a directory, expected a file", path)
	}
	return true, nil
}
