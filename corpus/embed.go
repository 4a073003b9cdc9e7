// api/corpus/embed.go
package corpus

import _ "embed"

//go:embed policy_corpus.json
var defaultCorpus []byte

// LoadDefault loads the corpus compiled into the binary. Deployments that
// ship clause updates out of band point corpus.path at a file instead.
func LoadDefault() (*Store, error) {
	return Parse(defaultCorpus)
}
