package models

import (
	"time"

	"github.com/google/uuid"
)

// Region is the competitive region a player plays out of.
type Region string

const (
	RegionEU   Region = "EU"
	RegionNAC  Region = "NAC"
	RegionNAW  Region = "NAW"
	RegionBR   Region = "BR"
	RegionASIA Region = "ASIA"
	RegionOCE  Region = "OCE"
	RegionME   Region = "ME"
)

// Regions lists every region in canonical order.
var Regions = []Region{RegionEU, RegionNAC, RegionNAW, RegionBR, RegionASIA, RegionOCE, RegionME}

// Valid reports whether r is one of the known regions.
func (r Region) Valid() bool {
	for _, known := range Regions {
		if r == known {
			return true
		}
	}
	return false
}

// Player represents a ranked competitive player that can be drafted and traded
type Player struct {
	ID       uuid.UUID `json:"id"`
	Nickname string    `json:"nickname"`
	Region   Region    `json:"region"`
	// Rank is the seasonal ranking, 1 is best and 0 means unranked.
	Rank      int       `json:"rank"`
	Locked    bool      `json:"locked"`
	Season    int       `json:"season"`
	CreatedAt time.Time `json:"created_at"`
}
