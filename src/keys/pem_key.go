package keys

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"
)

// PemKey is an ECDSA private key backed by a PEM file.
type PemKey struct {
	path string
}

// NewPemKey ...
func NewPemKey(path string) *PemKey {
	return &PemKey{path: path}
}

// Path ...
func (k *PemKey) Path() string {
	return k.path
}

// ReadKey parses the private key from the underlying file. It returns nil
// when the file does not exist or is empty.
func (k *PemKey) ReadKey() (*ecdsa.PrivateKey, error) {
	buf, err := os.ReadFile(k.path)
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}

	if len(buf) == 0 {
		return nil, nil
	}

	block, _ := pem.Decode(buf)
	if block == nil {
		return nil, fmt.Errorf("Error decoding PEM block from data")
	}
	return x509.ParseECPrivateKey(block.Bytes)
}

// WriteKey encodes the private key into the underlying file.
func (k *PemKey) WriteKey(key *ecdsa.PrivateKey) error {
	b, err := x509.MarshalECPrivateKey(key)
	if err != nil {
		return err
	}
	pemBlock := &pem.Block{Type: "EC PRIVATE KEY", Bytes: b}
	data := pem.EncodeToMemory(pemBlock)
	return os.WriteFile(k.path, data, 0600)
}

// GenerateECDSAKey ...
func GenerateECDSAKey() (*ecdsa.PrivateKey, error) {
	return ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
}

// PublicKeyHex returns the uncompressed public key as a 0x-prefixed hex
// string, as published in the pool's .pub sidecar files.
func PublicKeyHex(pub *ecdsa.PublicKey) string {
	return fmt.Sprintf("0x%X", elliptic.Marshal(elliptic.P256(), pub.X, pub.Y))
}
