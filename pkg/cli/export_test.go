package cli

var (
	NewApp      = newApp
	ReadRatings = readRatings
	WriteFile   = writeFile
)
