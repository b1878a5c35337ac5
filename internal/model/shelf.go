package model

// Shelves lists the six physical shelves in display order.
var Shelves = []string{"Eins", "Deux", "Trzy", "Quattro", "Beş", "Six"}

// ShelfDisplays maps each shelf to its five named display slots. A display
// value is only valid in combination with its parent shelf.
var ShelfDisplays = map[string][]string{
	"Eins":    {"Silent Horrors", "The Gloom Hall", "Chamber of the Cursed", "Cryptic Experiments", "Monstrously Domestic"},
	"Deux":    {"Pain & Paradox", "The Unholy Playroom", "Sleep No More", "Dead By Dawn", "The Enchanted Abyss"},
	"Trzy":    {"Stalkers of Fear", "The Crystal Lake Chronicles", "Carnage Unleashed", "The Rejected Ones", "The Butcher's Domain"},
	"Quattro": {"Terror in Toyland", "The Undead Legion", "The Shapeshifters", "The Wretched Ones", "Beastly Havoc"},
	"Beş":     {"Opaco's Nightmares", "Eccentric Horror Hall", "Twisted Wonders", "Oddities & Iconic", "Terror, Terrors & Tricksters"},
	"Six":     {"Fear in Motion", "Heroes of the Dark Side", "Beyond Earth", "Mythical Beasts", "Hellish Fates"},
}

// Defaults applied when a wishlist item is converted into a figure.
const (
	DefaultShelf   = "Eins"
	DefaultDisplay = "Silent Horrors"
)

// ValidShelf reports whether the shelf name exists.
func ValidShelf(shelf string) bool {
	_, ok := ShelfDisplays[shelf]
	return ok
}

// ValidDisplay reports whether display is one of the slots on the given shelf.
func ValidDisplay(shelf, display string) bool {
	for _, d := range ShelfDisplays[shelf] {
		if d == display {
			return true
		}
	}
	return false
}
