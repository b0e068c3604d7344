package domain

// Reconstruct derives the raw time, forecast and level axes of a group and
// builds its header lookup. The group must cover every (time, forecast,
// level) combination exactly once.
func Reconstruct(g *Group) (*Variable, error) {
	name := g.Identity.Nomvar
	if len(g.Headers) == 0 {
		return nil, variableErrorf(name, ErrGroupIncomplete, "no records")
	}

	var dates, forecasts, levels distinct
	for _, h := range g.Headers {
		dates.add(h.Dateo)
		forecasts.add(int64(h.IP2))
		levels.add(int64(h.IP1))
	}

	nt, nf, nz := len(dates.values), len(forecasts.values), len(levels.values)
	if nt*nf*nz != len(g.Headers) {
		return nil, variableErrorf(name, ErrGroupIncomplete,
			"%d times x %d forecasts x %d levels != %d records", nt, nf, nz, len(g.Headers))
	}

	lookup := newHeaderLookup(nt, nf, nz)
	for hi, h := range g.Headers {
		lookup.set(dates.index[h.Dateo], forecasts.index[int64(h.IP2)], levels.index[int64(h.IP1)], hi)
	}
	if n := lookup.Missing(); n > 0 {
		return nil, variableErrorf(name, ErrGroupIncomplete, "%d (time, forecast, level) cells have no record", n)
	}

	first := g.Headers[0]
	if first.NI <= 0 || first.NJ <= 0 || first.NK <= 0 {
		return nil, variableErrorf(name, ErrIncompatibleMetadata,
			"invalid record shape %dx%dx%d", first.NI, first.NJ, first.NK)
	}
	v := &Variable{
		Name:     name,
		Identity: g.Identity,
		Time:     TimeAxis{Kind: TimeIndex, Codes: dates.values},
		Forecast: forecasts.values,
		Level:    VerticalAxis{Kind: LevelGeneric, Codes: levels.values},
		NK:       int(first.NK),
		X:        IndexAxis(int(first.NI)),
		Y:        IndexAxis(int(first.NJ)),
		Attrs:    headerAttrs(first),
		headers:  g.Headers,
		lookup:   lookup,
	}
	return v, nil
}

// DecodeGroup runs the independent per-group decode: axis reconstruction,
// time and level decoding and analytic grid resolution. Coordinate
// providers only get their raw axes.
func DecodeGroup(g *Group, hybrids HybridTable, diag *Diagnostics) (*Variable, error) {
	v, err := Reconstruct(g)
	if err != nil {
		return nil, err
	}
	if g.IsCoordinateProvider() {
		return v, nil
	}

	v.Time = DecodeTimeAxis(v.Time.Codes, diag)
	v.Level, err = DecodeLevels(v.Name, v.Level.Codes, v.Identity.Etiket, hybrids)
	if err != nil {
		return nil, err
	}
	if err := ResolveAnalyticGrid(v); err != nil {
		return nil, err
	}
	return v, nil
}

func headerAttrs(h *RawRecordHeader) map[string]any {
	return map[string]any{
		"nomvar": h.Name(),
		"typvar": h.Kind(),
		"etiket": h.Label(),
		"grtyp":  string(rune(h.Grtyp)),
		"ip3":    h.IP3,
		"ig1":    h.IG1,
		"ig2":    h.IG2,
		"ig3":    h.IG3,
		"ig4":    h.IG4,
		"deet":   h.Deet,
		"npas":   h.Npas,
		"datyp":  h.Datyp,
	}
}

// distinct keeps values in first-seen order with their positions.
type distinct struct {
	values []int64
	index  map[int64]int
}

func (d *distinct) add(v int64) {
	if d.index == nil {
		d.index = make(map[int64]int)
	}
	if _, ok := d.index[v]; ok {
		return
	}
	d.index[v] = len(d.values)
	d.values = append(d.values, v)
}
