package cryptox

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/notekeeper/internal/common"
)

// Params is the typed view of a key parameter set as served by the
// KeyParams call. Fields a version does not use stay zero.
type Params struct {
	Version    string
	Identifier string
	Nonce      string
	Salt       string
	Cost       int
	Alg        string
	KeySize    int
}

var errMissingParam = errors.New("missing key parameter")

// ParamsFromMap converts a decoded parameter mapping. Numbers may arrive as
// float64 (structpb, JSON) or as strings.
func ParamsFromMap(m map[string]any) (Params, error) {
	var p Params
	var err error

	if p.Version, err = str(m, "version", true); err != nil {
		return p, err
	}
	if p.Identifier, err = str(m, "identifier", true); err != nil {
		return p, err
	}
	if p.Nonce, err = str(m, "pw_nonce", false); err != nil {
		return p, err
	}
	if p.Salt, err = str(m, "pw_salt", false); err != nil {
		return p, err
	}
	if p.Alg, err = str(m, "pw_alg", false); err != nil {
		return p, err
	}
	if p.Cost, err = num(m, "pw_cost"); err != nil {
		return p, err
	}
	if p.KeySize, err = num(m, "pw_key_size"); err != nil {
		return p, err
	}

	switch p.Version {
	case "004", "003":
		if p.Nonce == "" {
			return p, fmt.Errorf("%w: pw_nonce", errMissingParam)
		}
	case "002", "001":
		if p.Salt == "" {
			return p, fmt.Errorf("%w: pw_salt", errMissingParam)
		}
	default:
		return p, fmt.Errorf("%w: %q", common.ErrUnsupportedSchemeVersion, p.Version)
	}

	return p, nil
}

func str(m map[string]any, key string, required bool) (string, error) {
	v, ok := m[key]
	if !ok || v == nil {
		if required {
			return "", fmt.Errorf("%w: %s", errMissingParam, key)
		}
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("key parameter %s: unexpected type %T", key, v)
	}
	return s, nil
}

func num(m map[string]any, key string) (int, error) {
	switch v := m[key].(type) {
	case nil:
		return 0, nil
	case float64:
		return int(v), nil
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case string:
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("key parameter %s: %w", key, err)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("key parameter %s: unexpected type %T", key, v)
	}
}
