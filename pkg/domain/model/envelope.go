package model

// CipherEnvelope is an authenticated ciphertext. All fields are hex encoded.
type CipherEnvelope struct {
	IV         string `json:"iv" firestore:"iv"`
	Ciphertext string `json:"ciphertext" firestore:"ciphertext"`
	AuthTag    string `json:"authTag" firestore:"authTag"`
}

// IsZero reports whether the envelope carries no data
func (e CipherEnvelope) IsZero() bool {
	return e.IV == "" && e.Ciphertext == "" && e.AuthTag == ""
}
