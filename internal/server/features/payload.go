// Package features knows the reserved feature-configuration content types
// and the encoding of their embedded configuration payload:
//
//	<3-char version prefix><base64 of a JSON object>
package features

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"unicode"

	"github.com/dmitrijs2005/notekeeper/internal/common"
)

// Reserved content types of feature-configuration items.
const (
	ContentTypeMFA       = "SF|MFA"
	ContentTypeExtension = "SF|Extension"
)

// SubtypeEmailArchive identifies the email backup extension.
const SubtypeEmailArchive = "backup.email_archive"

// PayloadVersion is the prefix written by Encode.
const PayloadVersion = "002"

const versionPrefixLen = 3

// Payload is the subset of a feature configuration the server acts upon.
type Payload struct {
	AllowEmailRecovery bool   `json:"allowEmailRecovery,omitempty"`
	Subtype            string `json:"subtype,omitempty"`
}

// Decode extracts the configuration payload from item content. Content that
// is not a base64 JSON object is reported as common.ErrMalformedFeaturePayload.
// Each field is read on its own: a field of the wrong type is left zero and
// does not spoil the others.
//
// Line breaks inside the base64 part are tolerated; some encoders wrap their
// output every 60 characters.
func Decode(content string) (Payload, error) {
	var p Payload

	if len(content) <= versionPrefixLen {
		return p, fmt.Errorf("%w: content too short", common.ErrMalformedFeaturePayload)
	}

	encoded := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, content[versionPrefixLen:])

	raw, err := decodeBase64(encoded)
	if err != nil {
		return p, fmt.Errorf("%w: %v", common.ErrMalformedFeaturePayload, err)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return p, fmt.Errorf("%w: %v", common.ErrMalformedFeaturePayload, err)
	}

	readField(fields, "allowEmailRecovery", &p.AllowEmailRecovery)
	readField(fields, "subtype", &p.Subtype)

	return p, nil
}

func readField[T any](fields map[string]json.RawMessage, key string, dst *T) {
	v, ok := fields[key]
	if !ok {
		return
	}
	var out T
	if err := json.Unmarshal(v, &out); err == nil {
		*dst = out
	}
}

func decodeBase64(s string) ([]byte, error) {
	if b, err := base64.StdEncoding.DecodeString(s); err == nil {
		return b, nil
	}
	return base64.RawStdEncoding.DecodeString(s)
}

// Encode renders p as item content with the current payload version.
func Encode(p Payload) (string, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	return PayloadVersion + base64.StdEncoding.EncodeToString(raw), nil
}
