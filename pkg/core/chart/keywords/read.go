package keywords

import (
	"encoding/json"
	"os"

	"github.com/matzehuels/circlepack/pkg/errors"
)

// ReadFiles loads a Dataset from a keyword weights file
// ({"cluster": {"keyword": weight}}) and a cluster file
// ({"cluster": {"size": n}}).
func ReadFiles(keywordsPath, clustersPath string) (Dataset, error) {
	var ds Dataset
	if err := readJSON(keywordsPath, &ds.Keywords); err != nil {
		return Dataset{}, err
	}
	if err := readJSON(clustersPath, &ds.Clusters); err != nil {
		return Dataset{}, err
	}
	return ds, nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.Wrap(errors.ErrCodeFileNotFound, err, "keywords input %s", path)
		}
		return errors.Wrap(errors.ErrCodeInternal, err, "read %s", path)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode %s", path)
	}
	return nil
}
