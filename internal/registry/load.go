package registry

import (
	"os"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/policy-compare/internal/model"
)

// Registry bundles the synonym dictionary and company registry.
type Registry struct {
	Synonyms  *Synonyms
	Companies *Companies
}

// Default returns the built-in registry.
func Default() *Registry {
	return &Registry{
		Synonyms:  DefaultSynonyms(),
		Companies: DefaultCompanies(),
	}
}

// extension is the on-disk shape of a registry extension file.
type extension struct {
	Synonyms  map[string][]string `yaml:"synonyms"`
	Companies []Company           `yaml:"companies"`
}

// Load returns the default registry extended by the YAML file at path.
// Extra aliases are appended after the defaults for their field and extra
// companies after the default companies. An empty path yields Default().
func Load(path string) (*Registry, error) {
	reg := Default()
	if path == "" {
		return reg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "registry: read extension")
	}

	var ext extension
	if err := yaml.Unmarshal(data, &ext); err != nil {
		return nil, eris.Wrap(err, "registry: unmarshal extension")
	}

	extra := make(map[model.Field][]string, len(ext.Synonyms))
	for key, aliases := range ext.Synonyms {
		f := model.Field(key)
		if !f.IsValid() {
			return nil, eris.Errorf("registry: unknown field %q in %s", key, path)
		}
		extra[f] = aliases
	}

	reg.Synonyms = reg.Synonyms.extend(extra)
	reg.Companies = reg.Companies.extend(ext.Companies)

	zap.L().Info("registry: loaded extension",
		zap.String("path", path),
		zap.Int("fields", len(extra)),
		zap.Int("companies", len(ext.Companies)),
	)
	return reg, nil
}
