package venmo

type UserBalance struct {
	Value float64 `json:"value"`
}

type Balance struct {
	UserBalance UserBalance `json:"userBalance"`
}

// Identity is the account profile snapshot fetched over graphql after
// login. It is cached on the client and read-only until re-fetched.
type Identity struct {
	IsDenylisted bool    `json:"isDenylisted"`
	IsSuspended  bool    `json:"isSuspended"`
	DisplayName  string  `json:"displayName"`
	Handle       string  `json:"handle"`
	Id           string  `json:"id"`
	Balance      Balance `json:"balance"`
}

// LoginProfile is the payload the login endpoint answers with. It only
// confirms the login round-tripped; the authoritative profile comes from
// Profile afterwards.
type LoginProfile struct {
	DisplayName       string `json:"displayName"`
	Id                string `json:"id"`
	Username          string `json:"username"`
	FirstName         string `json:"firstName"`
	LastName          string `json:"lastName"`
	ProfilePictureUrl string `json:"profilePictureUrl"`
	FriendCount       int    `json:"friendCount"`
	Initials          string `json:"initials"`
	IsBlocked         bool   `json:"isBlocked"`
	IsActive          bool   `json:"isActive"`
	IdentityType      string `json:"identityType"`
	Email             string `json:"email"`
	Phone             string `json:"phone"`
}

// Person is a people-search candidate.
type Person struct {
	DisplayName string `json:"displayName"`
	Id          string `json:"id"`
	Handle      string `json:"handle"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	IsFriend    bool   `json:"isFriend"`
}

// FundingInstrument is a read-only projection of one of the wallet's
// payment methods. Refetched on demand, never cached.
type FundingInstrument struct {
	Id             string `json:"id"`
	Name           string `json:"name"`
	InstrumentType string `json:"instrumentType"`
}

const StorySubTypePeerToPeer = "p2p"

type StoryNote struct {
	Content string `json:"content"`
}

type Counterparty struct {
	Id          string `json:"id"`
	DisplayName string `json:"displayName"`
	Username    string `json:"username"`
}

type StoryPayload struct {
	SubType string `json:"subType"`
}

type StoryTitle struct {
	Payload  StoryPayload  `json:"payload"`
	Content  string        `json:"content"`
	Receiver *Counterparty `json:"receiver"`
	Sender   *Counterparty `json:"sender"`
}

// Story is one feed entry. Amount is a signed decimal string with a
// leading + or -. Sender/Receiver are only present for p2p stories.
type Story struct {
	Amount string     `json:"amount"`
	Date   string     `json:"date"`
	Note   StoryNote  `json:"note"`
	Title  StoryTitle `json:"title"`
}

type storiesResponse struct {
	NextId  string  `json:"nextId"`
	Stories []Story `json:"stories"`
}

// FeedPage accumulates stories across one or more underlying page
// fetches. NextCursor is the cursor returned by the final fetch.
type FeedPage struct {
	Stories    []Story
	NextCursor string
}
