// Package secrets seals stored values with age (X25519) encryption.
package secrets

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"filippo.io/age"
)

var (
	encPrefix = []byte("ENC[age:")
	encSuffix = []byte("]")
)

// GenerateIdentity creates an X25519 key pair and writes it to path with 0o600.
// It is idempotent: if the file already exists, it does nothing and reports false.
func GenerateIdentity(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}

	identity, err := age.GenerateX25519Identity()
	if err != nil {
		return false, fmt.Errorf("generate age identity: %w", err)
	}

	content := fmt.Sprintf("# created by listo\n# public key: %s\n%s\n",
		identity.Recipient().String(), identity.String())

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return false, fmt.Errorf("create key directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		return false, fmt.Errorf("write age key: %w", err)
	}
	return true, nil
}

// LoadIdentity reads an age private key from the given file.
func LoadIdentity(path string) (*age.X25519Identity, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open age key: %w", err)
	}
	defer f.Close()

	identities, err := age.ParseIdentities(f)
	if err != nil {
		return nil, fmt.Errorf("parse age identities: %w", err)
	}
	if len(identities) == 0 {
		return nil, fmt.Errorf("no identities found in %s", path)
	}

	id, ok := identities[0].(*age.X25519Identity)
	if !ok {
		return nil, fmt.Errorf("unexpected identity type in %s", path)
	}
	return id, nil
}

// Seal encrypts plaintext for recipient and returns an ENC[age:...] blob.
func Seal(plaintext []byte, recipient age.Recipient) ([]byte, error) {
	var buf bytes.Buffer
	w, err := age.Encrypt(&buf, recipient)
	if err != nil {
		return nil, fmt.Errorf("age encrypt init: %w", err)
	}
	if _, err := w.Write(plaintext); err != nil {
		return nil, fmt.Errorf("age encrypt write: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("age encrypt close: %w", err)
	}

	out := make([]byte, 0, len(encPrefix)+base64.StdEncoding.EncodedLen(buf.Len())+len(encSuffix))
	out = append(out, encPrefix...)
	out = base64.StdEncoding.AppendEncode(out, buf.Bytes())
	out = append(out, encSuffix...)
	return out, nil
}

// Open decrypts an ENC[age:...] blob back to plaintext.
func Open(blob []byte, identity age.Identity) ([]byte, error) {
	if !IsSealed(blob) {
		return nil, fmt.Errorf("not an encrypted blob")
	}

	encoded := blob[len(encPrefix) : len(blob)-len(encSuffix)]
	ciphertext, err := base64.StdEncoding.AppendDecode(nil, encoded)
	if err != nil {
		return nil, fmt.Errorf("base64 decode: %w", err)
	}

	r, err := age.Decrypt(bytes.NewReader(ciphertext), identity)
	if err != nil {
		return nil, fmt.Errorf("age decrypt: %w", err)
	}

	plain, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read decrypted: %w", err)
	}
	return plain, nil
}

// IsSealed reports whether b is an ENC[age:...] blob.
func IsSealed(b []byte) bool {
	return bytes.HasPrefix(b, encPrefix) && bytes.HasSuffix(b, encSuffix) &&
		len(b) >= len(encPrefix)+len(encSuffix)
}
