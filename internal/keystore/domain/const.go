package domain

// Algorithm identifies the authenticated encryption algorithm bound to a key.
type Algorithm string

// AES256GCM is the only algorithm keys are created for: AES with a 256-bit key in
// Galois/Counter Mode, a 12-byte nonce and a 16-byte authentication tag.
const AES256GCM Algorithm = "aes-256-gcm"

// Purpose restricts what a key may be used for.
type Purpose string

// PurposeEncryptDecrypt allows a key to be used for encryption and decryption only.
const PurposeEncryptDecrypt Purpose = "encrypt-decrypt"

const (
	// KeySize is the length of key material in bytes (256 bits).
	KeySize = 32
	// NonceSize is the GCM nonce length in bytes (96 bits).
	NonceSize = 12
	// TagSize is the GCM authentication tag length in bytes (128 bits).
	TagSize = 16

	// MaxAliasLength bounds aliases so they fit the secure_keys.alias column.
	MaxAliasLength = 255

	// DefaultAlias is the alias used when none is configured.
	DefaultAlias = "my_app_key"
)
