// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package scram declares the password hashing which is needed for the
// creation of database roles. The PostgreSQL server and its driver run
// the SCRAM conversations themselves, so only the stored hash string
// is needed here. The implementation lives in pkg/adapter/hash/scram.
package scram

// Hasher computes SCRAM stored hashes for one hash function, such as
// SHA-256. The schema repository uses it so that `cmweb db init`
// passes hashes, rather than plaintext passwords, to CREATE/ALTER ROLE
// statements which might be logged by the server.
type Hasher interface {
	// Hash derives the storedKey and serverKey of pass (after SASLprep
	// normalization) with PBKDF2 and returns them in the format which
	// PostgreSQL accepts as a role password:
	//
	//	SCRAM-{SHA-X}${iters}:{b64-salt}${b64-storedKey}:{b64-serverKey}
	//
	// The salt is base64 encoded, or empty for a random salt. The iters
	// count must be at least 4096.
	Hash(pass, salt string, iters int) (string, error)
}
