package djiparser

import "djilog/internal/keychain"

type decryptKind int

const (
	decryptNone decryptKind = iota
	decryptAPIKey
	decryptKeychains
)

// DecryptMethod selects how Records/Frames should handle v13+ encrypted
// bodies: not at all, by fetching keychains lazily with an API key, or
// from a keychain Set the caller already obtained.
type DecryptMethod struct {
	kind   decryptKind
	apiKey string
	client *keychain.Client
	set    *keychain.Set
}

// NoDecryption leaves every v13+ body as Unknown(MissingKey).
func NoDecryption() DecryptMethod {
	return DecryptMethod{kind: decryptNone}
}

// WithAPIKey fetches keychains from the vendor endpoint through client,
// lazily on the first record pulled, and memoizes the result for the rest
// of the sequence.
func WithAPIKey(apiKey string, client *keychain.Client) DecryptMethod {
	return DecryptMethod{kind: decryptAPIKey, apiKey: apiKey, client: client}
}

// WithKeychains uses a keychain Set the caller already fetched (or
// fabricated for a test), performing no network access.
func WithKeychains(set *keychain.Set) DecryptMethod {
	return DecryptMethod{kind: decryptKeychains, set: set}
}
