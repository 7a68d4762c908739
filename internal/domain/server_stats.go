package domain

// ServerStats is the public snapshot of the game server.
type ServerStats struct {
	Players    int    `json:"players"`
	MaxPlayers int    `json:"max_players"`
	Hostname   string `json:"hostname"`
	Gametype   string `json:"gametype"`
	Online     bool   `json:"online"`
}
