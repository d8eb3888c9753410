// Package keyparams resolves the key-derivation parameters a client needs to
// compute its password-derived key, for every supported credential scheme
// version.
//
// Each version owns an explicit field list in one table; adding a version is
// a new table row, not a new branch.
package keyparams

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"

	"github.com/dmitrijs2005/notekeeper/internal/common"
	"github.com/dmitrijs2005/notekeeper/internal/server/models"
)

// Version is a credential scheme version.
type Version string

const (
	Version001 Version = "001"
	Version002 Version = "002"
	Version003 Version = "003"
	Version004 Version = "004"
)

// Latest is the scheme used for new accounts.
const Latest = Version004

// Params is a resolved parameter set keyed by wire name.
type Params map[string]any

// Keys returns the parameter names in sorted order.
func (p Params) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

type field struct {
	key   string
	value func(u *models.User) any
}

var (
	identifier  = field{"identifier", func(u *models.User) any { return u.Email }}
	email       = field{"email", func(u *models.User) any { return u.Email }}
	version     = field{"version", func(u *models.User) any { return u.Version }}
	pwNonce     = field{"pw_nonce", func(u *models.User) any { return u.PwNonce }}
	pwCost      = field{"pw_cost", func(u *models.User) any { return u.PwCost }}
	pwSalt      = field{"pw_salt", func(u *models.User) any { return u.PwSalt }}
	pwAlg       = field{"pw_alg", func(u *models.User) any { return u.PwAlg }}
	pwFunc      = field{"pw_func", func(u *models.User) any { return u.PwFunc }}
	pwKeySize   = field{"pw_key_size", func(u *models.User) any { return u.PwKeySize }}
	created     = field{"created", func(u *models.User) any { return u.KpCreated }}
	origination = field{"origination", func(u *models.User) any { return u.KpOrigination }}
)

// schemes lists the exact field set of every version. 002 and 001 predate
// pw_nonce and carry the salt instead.
var schemes = map[Version][]field{
	Version004: {identifier, pwNonce, version},
	Version003: {identifier, pwNonce, version, pwCost},
	Version002: {identifier, version, email, pwCost, pwSalt},
	Version001: {identifier, version, email, pwCost, pwSalt, pwAlg, pwFunc, pwKeySize},
}

var extendedFields = []field{created, origination}

// ParseVersion validates a stored version string.
func ParseVersion(s string) (Version, error) {
	v := Version(s)
	if _, ok := schemes[v]; !ok {
		return "", fmt.Errorf("%w: %q", common.ErrUnsupportedSchemeVersion, s)
	}
	return v, nil
}

// Resolve returns the parameter set for u's scheme version. With extended
// set, the provenance fields created and origination are added.
func Resolve(u *models.User, extended bool) (Params, error) {
	v, err := ParseVersion(u.Version)
	if err != nil {
		return nil, err
	}

	fields := schemes[v]
	params := make(Params, len(fields)+len(extendedFields))
	for _, f := range fields {
		params[f.key] = f.value(u)
	}
	if extended {
		for _, f := range extendedFields {
			params[f.key] = f.value(u)
		}
	}

	return params, nil
}

// PseudoUser builds a stand-in account for an unknown email. Its nonce is an
// HMAC of the email, so repeated lookups return the same parameters and
// callers cannot tell missing accounts from real ones.
func PseudoUser(emailAddr string, secret []byte) *models.User {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(emailAddr))

	return &models.User{
		Email:         emailAddr,
		Version:       string(Latest),
		PwNonce:       hex.EncodeToString(mac.Sum(nil)),
		KpOrigination: "registration",
	}
}
