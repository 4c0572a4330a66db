package permission

// derived lists the permissions implied by each grant type. Grant types
// absent from the table (password, client_credentials, ...) imply nothing.
var derived = map[string][]Permission{
	GrantAuthorizationCode: {
		ResponseType(ResponseCode),
		ResponseType(ResponseIDToken),
		Endpoint(EndpointAuthorization),
		Endpoint(EndpointToken),
	},
}

// Build assembles a client's permission set from its explicit scopes and
// grant types, then derives the implied response types and endpoints.
func Build(scopes, grantTypes []string) Set {
	var s Set
	for _, sc := range scopes {
		s.Add(Scope(sc))
	}
	for _, gt := range grantTypes {
		s.Add(GrantType(gt))
	}
	Derive(&s)
	return s
}

// Derive adds the permissions implied by the grant types already present.
// It scans a snapshot of the set: adding while iterating the live slice
// would feed derived entries back into the scan.
func Derive(s *Set) {
	for _, p := range s.Snapshot() {
		if p.Kind != KindGrantType {
			continue
		}
		for _, d := range derived[p.Value] {
			s.Add(d)
		}
	}
}
