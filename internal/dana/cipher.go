package dana

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/md5"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
)

// The portal encrypts with CryptoJS passphrase mode, which is the OpenSSL
// "enc" format: base64("Salted__" || salt || AES-256-CBC(PKCS#7)), with key
// and IV from EVP_BytesToKey over MD5.
const (
	saltMagic = "Salted__"
	saltLen   = 8
	keyLen    = 32
	ivLen     = aes.BlockSize
)

// DecryptEnvelope decrypts a base64 token with a passphrase.
func DecryptEnvelope(token, passphrase string) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("decoding token: %w", err)
	}

	if len(data) < len(saltMagic)+saltLen || string(data[:len(saltMagic)]) != saltMagic {
		return nil, fmt.Errorf("token is missing the %q header", saltMagic)
	}
	salt := data[len(saltMagic) : len(saltMagic)+saltLen]
	data = data[len(saltMagic)+saltLen:]

	if len(data) == 0 || len(data)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("ciphertext length %d is not a multiple of the block size", len(data))
	}

	key, iv := evpBytesToKey([]byte(passphrase), salt)
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	plaintext := make([]byte, len(data))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plaintext, data)

	return pkcs7Unpad(plaintext)
}

// EncryptEnvelope is the inverse of DecryptEnvelope using a random salt.
func EncryptEnvelope(plaintext []byte, passphrase string) (string, error) {
	salt := make([]byte, saltLen)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", fmt.Errorf("generating salt: %w", err)
	}

	key, iv := evpBytesToKey([]byte(passphrase), salt)
	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}

	padded := pkcs7Pad(plaintext)
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)

	out := make([]byte, 0, len(saltMagic)+saltLen+len(ciphertext))
	out = append(out, saltMagic...)
	out = append(out, salt...)
	out = append(out, ciphertext...)
	return base64.StdEncoding.EncodeToString(out), nil
}

func evpBytesToKey(passphrase, salt []byte) (key, iv []byte) {
	var derived, prev []byte
	for len(derived) < keyLen+ivLen {
		h := md5.New()
		h.Write(prev)
		h.Write(passphrase)
		h.Write(salt)
		prev = h.Sum(nil)
		derived = append(derived, prev...)
	}
	return derived[:keyLen], derived[keyLen : keyLen+ivLen]
}

func pkcs7Pad(data []byte) []byte {
	n := aes.BlockSize - len(data)%aes.BlockSize
	return append(append([]byte(nil), data...), bytes.Repeat([]byte{byte(n)}, n)...)
}

func pkcs7Unpad(data []byte) ([]byte, error) {
	n := int(data[len(data)-1])
	if n == 0 || n > aes.BlockSize || n > len(data) {
		return nil, fmt.Errorf("invalid padding")
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, fmt.Errorf("invalid padding")
		}
	}
	return data[:len(data)-n], nil
}
