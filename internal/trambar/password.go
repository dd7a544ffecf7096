package trambar

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const rootAccount = "root"

// SetRootPassword hashes the password and rewrites the credential file.
// The file holds a single htpasswd-style line for the root account.
func SetRootPassword(cfg Config, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	line := fmt.Sprintf("%s:%s\n", rootAccount, hash)
	return os.WriteFile(CredentialPath(cfg.Prefix), []byte(line), 0o600)
}

// VerifyRootPassword checks a password against the stored hash.
func VerifyRootPassword(cfg Config, password string) error {
	b, err := os.ReadFile(CredentialPath(cfg.Prefix))
	if err != nil {
		return err
	}
	line := strings.TrimSpace(string(b))
	parts := strings.SplitN(line, ":", 2)
	if len(parts) != 2 || parts[0] != rootAccount {
		return fmt.Errorf("malformed credential file %s", CredentialPath(cfg.Prefix))
	}
	return bcrypt.CompareHashAndPassword([]byte(parts[1]), []byte(password))
}

// HasRootPassword reports whether a credential file exists.
func HasRootPassword(cfg Config) bool {
	info, err := os.Stat(CredentialPath(cfg.Prefix))
	return err == nil && !info.IsDir()
}
