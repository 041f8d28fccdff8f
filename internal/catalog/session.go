package catalog

// Session holds everything one authenticated connection accumulates. It is
// owned by a single driver and carries no locking; callers serialize access.
type Session struct {
	Token     string
	Username  string
	ServerURL string
	APIURL    string
	DriverID  int

	Version   map[string]string
	Templates []ParameterTemplate
	Locations []StockLocation

	// Results is replaced wholesale by every search.
	Results []FoundPart

	// Attributes and Parameters belong to the current selection only.
	Attributes []PartAttribute
	Parameters []PartParameter
}

// NewSession returns an empty, unauthenticated session for the given server.
func NewSession(serverURL, apiURL string) *Session {
	return &Session{
		ServerURL: serverURL,
		APIURL:    apiURL,
		Version:   map[string]string{},
	}
}

// Authenticated reports whether a token has been obtained.
func (s *Session) Authenticated() bool {
	return s != nil && s.Token != ""
}

// Reset forgets everything learned from a previous connection and records
// the user about to log in.
func (s *Session) Reset(username string) {
	s.Token = ""
	s.Username = username
	s.Version = map[string]string{}
	s.Templates = nil
	s.Locations = nil
	s.ClearResults()
}

// ReplaceResults swaps in a new search result list. The previous selection
// refers to the old list and is dropped.
func (s *Session) ReplaceResults(parts []FoundPart) {
	s.Results = parts
	s.Attributes = nil
	s.Parameters = nil
}

// ClearResults drops the search results and the selection built from them.
func (s *Session) ClearResults() {
	s.Results = nil
	s.Attributes = nil
	s.Parameters = nil
}

// PartAt returns the search hit at position.
func (s *Session) PartAt(position int) (FoundPart, error) {
	if position < 0 || position >= len(s.Results) {
		return FoundPart{}, &PositionError{Position: position, Count: len(s.Results)}
	}
	return s.Results[position], nil
}

// VersionInfo returns a copy of the server version fields.
func (s *Session) VersionInfo() map[string]string {
	out := make(map[string]string, len(s.Version))
	for k, v := range s.Version {
		out[k] = v
	}
	return out
}
