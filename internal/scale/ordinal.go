package scale

// Tableau10 is the categorical palette used for line types.
var Tableau10 = []string{
	"#4e79a7", "#f28e2c", "#e15759", "#76b7b2", "#59a14f",
	"#edc949", "#af7aa1", "#ff9da7", "#9c755f", "#bab0ab",
}

// Ordinal assigns palette entries to keys in first-seen order, cycling
// when the palette runs out. It is not safe for concurrent use.
type Ordinal struct {
	palette []string
	index   map[string]int
}

// NewOrdinal returns an ordinal scale, optionally pre-seeded with a domain.
func NewOrdinal(palette []string, domain ...string) *Ordinal {
	o := &Ordinal{palette: palette, index: make(map[string]int)}
	for _, k := range domain {
		o.Map(k)
	}
	return o
}

// Map returns the color for key, assigning one on first use.
func (o *Ordinal) Map(key string) string {
	i, ok := o.index[key]
	if !ok {
		i = len(o.index)
		o.index[key] = i
	}
	return o.palette[i%len(o.palette)]
}

// Len returns the number of keys seen.
func (o *Ordinal) Len() int {
	return len(o.index)
}
