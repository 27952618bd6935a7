package camedomotic

import (
	"crypto/cipher"
	"crypto/rand"
	"io"

	"golang.org/x/crypto/chacha20poly1305"
)

// credentialVault holds the login credentials encrypted at rest with a
// process-lifetime XChaCha20-Poly1305 key. The key is generated once per
// Session and never persisted, so plaintext credentials cannot end up in a
// casual memory dump or in log output by mistake. This is defense in depth,
// not a boundary against a privileged attacker.
type credentialVault struct {
	aead     cipher.AEAD
	username []byte
	password []byte
}

// newCredentialVault creates a vault with a fresh random key and stores the
// given credentials encrypted.
func newCredentialVault(username, password string) (*credentialVault, error) {
	aead, err := chacha20poly1305.NewX(randomBytes(chacha20poly1305.KeySize))
	if err != nil {
		return nil, err
	}
	v := &credentialVault{aead: aead}
	v.set(username, password)
	return v, nil
}

// set replaces the stored credentials. It never fails: encryption with a
// valid in-memory key cannot error.
func (v *credentialVault) set(username, password string) {
	v.username = v.seal(username)
	v.password = v.seal(password)
}

// Username returns the decrypted username, or ErrSessionClosed after scrub.
func (v *credentialVault) Username() (string, error) {
	return v.open(v.username)
}

// Password returns the decrypted password, or ErrSessionClosed after scrub.
func (v *credentialVault) Password() (string, error) {
	return v.open(v.password)
}

// scrub irreversibly clears the credentials and the cipher key.
func (v *credentialVault) scrub() {
	for i := range v.username {
		v.username[i] = 0
	}
	for i := range v.password {
		v.password[i] = 0
	}
	v.username = nil
	v.password = nil
	v.aead = nil
}

// seal encrypts a plaintext, prefixing the random nonce to the ciphertext.
func (v *credentialVault) seal(plaintext string) []byte {
	nonce := randomBytes(v.aead.NonceSize())
	return v.aead.Seal(nonce, nonce, []byte(plaintext), nil)
}

// open decrypts a nonce-prefixed ciphertext produced by seal.
func (v *credentialVault) open(blob []byte) (string, error) {
	if v.aead == nil {
		return "", ErrSessionClosed
	}
	nonceSize := v.aead.NonceSize()
	if len(blob) < nonceSize {
		return "", ErrSessionClosed
	}
	plaintext, err := v.aead.Open(nil, blob[:nonceSize], blob[nonceSize:], nil)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}

// randomBytes returns n cryptographically random bytes or panics: a failing
// system entropy source leaves nothing sensible to do.
func randomBytes(n int) []byte {
	b := make([]byte, n)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		panic(err)
	}
	return b
}
