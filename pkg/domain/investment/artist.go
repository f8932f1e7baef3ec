package investment

// Artist links a signed-in user to the artist profile they manage. Name is
// the identifier their transactions are recorded under.
type Artist struct {
	UserID string
	Name   ArtistID
}
