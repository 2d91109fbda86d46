package unformat

// Outcome is the per-candidate result of UnformatEach.
type Outcome struct {
	Values Values
	Err    error
}

// UnformatAll matches every candidate in order and returns one value slice
// per candidate, together with the pattern's name index (nil for positional
// patterns).
//
// The first candidate that fails to match stops the batch. The returned
// *BatchError carries the candidate index and unwraps to its *MatchError;
// no partial results are returned.
func (p *Pattern[K]) UnformatAll(candidates []string) (NameIndex, [][]string, error) {
	rows := make([][]string, len(candidates))
	for i, s := range candidates {
		captures, err := p.match(s)
		if err != nil {
			return nil, nil, &BatchError{Index: i, Err: err}
		}
		rows[i] = captures
	}
	return p.Index(), rows, nil
}

// UnformatToDict matches every candidate and returns the captures column by
// column, keyed by placeholder identifier. Every identifier is present even
// when candidates is empty.
//
// Positional patterns may repeat an identifier (anonymous placeholders all
// share ""). In that case the last placeholder carrying the identifier
// owns the column.
//
// Fails fast like UnformatAll.
func (p *Pattern[K]) UnformatToDict(candidates []string) (NameIndex, map[string][]string, error) {
	owner := ColumnOwners(p.Identifiers())

	columns := make(map[string][]string, len(owner))
	for label := range owner {
		columns[label] = make([]string, 0, len(candidates))
	}

	for i, s := range candidates {
		captures, err := p.match(s)
		if err != nil {
			return nil, nil, &BatchError{Index: i, Err: err}
		}
		for label, col := range owner {
			columns[label] = append(columns[label], captures[col])
		}
	}
	return p.Index(), columns, nil
}

// ColumnOwners maps each distinct identifier to the position of the
// placeholder that supplies its column in UnformatToDict: the last one
// carrying it.
func ColumnOwners(identifiers []string) map[string]int {
	owner := make(map[string]int, len(identifiers))
	for i, id := range identifiers {
		owner[id] = i
	}
	return owner
}

// UnformatEach matches every candidate and records each result, whether it
// matched or not. It never stops early.
func (p *Pattern[K]) UnformatEach(candidates []string) []Outcome {
	outcomes := make([]Outcome, len(candidates))
	for i, s := range candidates {
		v, err := p.Unformat(s)
		outcomes[i] = Outcome{Values: v, Err: err}
	}
	return outcomes
}
