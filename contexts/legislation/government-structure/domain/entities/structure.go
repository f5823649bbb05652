package entities

type ChamberID string

const (
	ChamberHouse  ChamberID = "house"
	ChamberSenate ChamberID = "senate"
)

type Chamber struct {
	ID             ChamberID
	SeatsTotal     int
	QuorumFraction float64
}

// Delegation is one state's seat allocation. Voting is false for delegations
// whose members sit in the chamber without a floor vote (the DC delegate).
type Delegation struct {
	State       string
	HouseSeats  int
	SenateSeats int
	Voting      bool
}
