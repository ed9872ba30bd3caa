package pipeline

import (
	"encoding/binary"
	"encoding/json"
	"math"

	"github.com/google/uuid"

	"github.com/matzehuels/stackplot/pkg/dataset"
	"github.com/matzehuels/stackplot/pkg/errors"
	"github.com/matzehuels/stackplot/pkg/template"
)

// figureNamespace scopes figure IDs to this project.
var figureNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/matzehuels/stackplot/figure"))

// FigureID returns the name-based UUID of a composition: the template, the
// data table and the compose options. Equal inputs give equal IDs.
func FigureID(t *template.Template, tab *dataset.Table, kind string, suppressInfo bool) (string, error) {
	tmpl, err := json.Marshal(t)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "encode template")
	}

	buf := append([]byte(nil), tmpl...)
	buf = append(buf, 0)
	buf = append(buf, kind...)
	if suppressInfo {
		buf = append(buf, 1)
	} else {
		buf = append(buf, 0)
	}

	for _, name := range tab.Columns() {
		col, err := tab.Column(name)
		if err != nil {
			return "", err
		}
		buf = append(buf, 0)
		buf = append(buf, name...)
		buf = binary.LittleEndian.AppendUint64(buf, uint64(len(col)))
		for _, v := range col {
			buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(v))
		}
	}
	return uuid.NewSHA1(figureNamespace, buf).String(), nil
}

func cloneTemplate(t *template.Template) (*template.Template, error) {
	data, err := json.Marshal(t)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidTemplate, err, "copy template")
	}
	var out template.Template
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidTemplate, err, "copy template")
	}
	return &out, nil
}
