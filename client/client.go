package client

// Name identifies an exchange client implementation in the config.
type Name string

const (
	// LNM is the lnmarkets derivatives client.
	LNM Name = "lnm"
	// Binance is the binance kline tick source.
	Binance Name = "binance"
	// Kraken is the kraken websocket tick source.
	Kraken Name = "kraken"
	// Local is the scripted replay client for tests and dry runs.
	Local Name = "local"
)
