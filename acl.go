package zkcoord

import (
	"crypto/sha1"
	"encoding/base64"
)

// ACL permission bits.
const (
	PermRead = 1 << iota
	PermWrite
	PermCreate
	PermDelete
	PermAdmin
	PermAll = 0x1f
)

// ACL is a single access-control entry attached to a node.
type ACL struct {
	Perms  int32
	Scheme string
	ID     string
}

// WorldACL returns an ACL list granting perms to anyone.
func WorldACL(perms int32) []ACL {
	return []ACL{{Perms: perms, Scheme: "world", ID: "anyone"}}
}

// AuthACL returns an ACL list granting perms to the authenticated user.
func AuthACL(perms int32) []ACL {
	return []ACL{{Perms: perms, Scheme: "auth", ID: ""}}
}

// DigestACL returns an ACL list granting perms to the given user with
// the digest scheme. The password is hashed the way the server expects.
func DigestACL(perms int32, user string, password string) []ACL {
	sum := sha1.Sum([]byte(user + ":" + password))
	digest := base64.StdEncoding.EncodeToString(sum[:])
	return []ACL{{
		Perms:  perms,
		Scheme: "digest",
		ID:     user + ":" + digest,
	}}
}
