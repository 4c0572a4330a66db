package password

import "testing"

// Parámetros bajos para que el test no tarde.
var testParams = Params{Memory: 8 * 1024, Time: 1, Parallelism: 1, KeyLen: 32}

func TestHashVerify(t *testing.T) {
	phc, err := Hash(testParams, "s3cret-pass")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if !Verify("s3cret-pass", phc) {
		t.Fatal("expected password to verify")
	}
	if Verify("wrong", phc) {
		t.Fatal("wrong password must not verify")
	}
}

func TestHash_EmptyPassword(t *testing.T) {
	if _, err := Hash(testParams, ""); err == nil {
		t.Fatal("expected error for empty password")
	}
}

func TestVerify_MalformedPHC(t *testing.T) {
	if Verify("x", "$argon2id$garbage") {
		t.Fatal("malformed PHC must not verify")
	}
}
