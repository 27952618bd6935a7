package camedomotic

// Topology entities. The gateway reports the building structure indirectly:
// device payloads carry floor_ind/room_ind indices, and some list responses
// embed the named entries below.

// Floor is a floor in the building structure.
type Floor struct {
	FloorInd int    `json:"floor_ind"`
	Name     string `json:"name"`
}

// Room is a room in the building structure, linked to its floor.
type Room struct {
	RoomInd  int    `json:"room_ind"`
	Name     string `json:"name"`
	FloorInd int    `json:"floor_ind"`
}
