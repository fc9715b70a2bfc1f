package cards

import (
	"bytes"
	"encoding/json"
	"maps"
	"os"
	"slices"

	"github.com/matzehuels/circlepack/pkg/errors"
)

// ReadFile loads cards from a JSON file holding either an array of cards or
// an object keyed by card name.
func ReadFile(path string) ([]Card, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "cards file %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read %s", path)
	}
	return Parse(data)
}

// Parse decodes cards from JSON. Object entries are returned in key order and
// take their name from the key when the entry has none.
func Parse(data []byte) ([]Card, error) {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var cards []Card
		if err := json.Unmarshal(data, &cards); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode card list")
		}
		return cards, nil
	}

	var byName map[string]Card
	if err := json.Unmarshal(data, &byName); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode cards")
	}
	cards := make([]Card, 0, len(byName))
	for _, name := range slices.Sorted(maps.Keys(byName)) {
		c := byName[name]
		if c.Name == "" {
			c.Name = name
		}
		cards = append(cards, c)
	}
	return cards, nil
}
