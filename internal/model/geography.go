package model

// Country mirrors a row of the `country` lookup table.
type Country struct {
	ID   uint64 // country.countryId
	Name string // country.name
}

// State mirrors a row of the `state` lookup table.
type State struct {
	ID        uint64 // state.stateId
	CountryID uint64 // state.countryId
	Name      string // state.name
}

// City mirrors a row of the `city` lookup table.
type City struct {
	ID      uint64 // city.cityId
	StateID uint64 // city.stateId
	Name    string // city.name
}
