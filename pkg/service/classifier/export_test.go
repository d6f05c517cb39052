package classifier

import "github.com/secmon-lab/ouvidoria/pkg/domain/model"

func (l *LLM) ParseForTest(raw string) (*model.Classification, error) {
	return l.parse(raw)
}
