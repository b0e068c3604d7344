package domain

// Identity holds the header attributes that stay constant across the records
// of one logical variable. It is comparable and used as a map key.
//
// The forecast code is not part of the identity of ordinary variables: it
// varies between records and becomes the forecast axis. Coordinate providers
// keep ip1 and ip2 because those codes tag the grid they describe.
type Identity struct {
	Nomvar string
	Typvar string
	Etiket string
	NI     int32
	NJ     int32
	NK     int32
	Grtyp  GridType
	IP1    int32 // Providers only.
	IP2    int32 // Providers only.
	IP3    int32
	IG1    int32
	IG2    int32
	IG3    int32
	IG4    int32
}

// IdentityOf extracts the grouping key of a header.
func IdentityOf(h *RawRecordHeader) Identity {
	id := Identity{
		Nomvar: h.Name(),
		Typvar: h.Kind(),
		Etiket: h.Label(),
		NI:     h.NI,
		NJ:     h.NJ,
		NK:     h.NK,
		Grtyp:  h.GridType(),
		IP3:    h.IP3,
		IG1:    h.IG1,
		IG2:    h.IG2,
		IG3:    h.IG3,
		IG4:    h.IG4,
	}
	if h.IsCoordinateProvider() {
		id.IP1 = h.IP1
		id.IP2 = h.IP2
	}
	return id
}

// Descriptor returns the grid descriptor integers of the identity.
func (id Identity) Descriptor() GridDescriptor {
	return GridDescriptor{
		Grtyp: id.Grtyp,
		IG1:   id.IG1,
		IG2:   id.IG2,
		IG3:   id.IG3,
		IG4:   id.IG4,
	}
}

// Group is the ordered list of headers belonging to one identity.
type Group struct {
	Identity Identity
	Headers  []*RawRecordHeader
}

// IsCoordinateProvider reports whether the group supplies coordinates to
// other variables instead of being a variable itself.
func (g *Group) IsCoordinateProvider() bool {
	return len(g.Headers) > 0 && g.Headers[0].IsCoordinateProvider()
}

// GroupHeaders partitions headers by identity. Every header lands in exactly
// one group, headers keep their input order within a group, and groups are
// returned in the order their identity was first seen.
func GroupHeaders(headers []RawRecordHeader) []*Group {
	index := make(map[Identity]*Group)
	groups := make([]*Group, 0)

	for i := range headers {
		h := &headers[i]
		key := IdentityOf(h)
		g, ok := index[key]
		if !ok {
			g = &Group{Identity: key}
			index[key] = g
			groups = append(groups, g)
		}
		g.Headers = append(g.Headers, h)
	}

	return groups
}
