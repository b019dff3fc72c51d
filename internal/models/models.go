package models

// RawDocument is the body of one fetch, consumed once by the extractor.
type RawDocument struct {
	URL         string
	ContentType string // declared Content-Type, charset included when sent
	Body        []byte
}

type BossRecord struct {
	Name   string  `json:"name"`
	Chance float64 `json:"chance"`
}

// Ranking is the derived report of one run: qualifying bosses ordered by
// chance, highest first. An empty Bosses slice is the "nothing qualifying"
// outcome, not a failure.
type Ranking struct {
	Context string       `json:"context"`
	Bosses  []BossRecord `json:"bosses"`
}

func (r Ranking) Empty() bool { return len(r.Bosses) == 0 }
