package domain

// Archive category names. The spotlight engine never switches on these;
// they are registry keys matched against the provider directory at read
// time, so adding a category is a registration, not an engine change.
const (
	CategoryBook     = "Book"
	CategoryMovie    = "Movie"
	CategoryShow     = "Show"
	CategoryMusic    = "Music"
	CategoryAnime    = "Anime"
	CategoryGame     = "Game"
	CategoryTabletop = "Tabletop"
	CategoryQuote    = "Quote"
)

// Categories lists every archive category with a registered provider.
func Categories() []string {
	return []string{
		CategoryBook,
		CategoryMovie,
		CategoryShow,
		CategoryMusic,
		CategoryAnime,
		CategoryGame,
		CategoryTabletop,
		CategoryQuote,
	}
}
