// internal/domain/catalog/entity.go
package catalog

import (
	"fmt"
	"time"
)

// Size of a bag
type Size int

const (
	SizeMini Size = iota + 1
	SizeMidi
	SizeMaxi
)

// Color of a bag
type Color int

const (
	ColorBeige Color = iota + 1
	ColorWhite
	ColorBrown
	ColorBlack
	ColorRed
	ColorPurple
	ColorBlue
	ColorOrange
	ColorPink
	ColorGold
	ColorSilver
	ColorGrey
	ColorGreen
	ColorYellow
	ColorMixed
)

// Fabric of a bag
type Fabric int

const (
	FabricNaturalLeather Fabric = iota + 1
	FabricVeganLeather
	FabricCotton
	FabricNylon
	FabricVinyl
	FabricJute
	FabricCanvas
)

var sizeNames = map[Size]string{SizeMini: "mini", SizeMidi: "midi", SizeMaxi: "maxi"}

var colorNames = map[Color]string{
	ColorBeige: "beige", ColorWhite: "white", ColorBrown: "brown", ColorBlack: "black",
	ColorRed: "red", ColorPurple: "purple", ColorBlue: "blue", ColorOrange: "orange",
	ColorPink: "pink", ColorGold: "gold", ColorSilver: "silver", ColorGrey: "grey",
	ColorGreen: "green", ColorYellow: "yellow", ColorMixed: "mixed",
}

var fabricNames = map[Fabric]string{
	FabricNaturalLeather: "natural_leather", FabricVeganLeather: "vegan_leather",
	FabricCotton: "cotton", FabricNylon: "nylon", FabricVinyl: "vinyl",
	FabricJute: "jute", FabricCanvas: "canvas",
}

func (s Size) String() string   { return enumName(sizeNames, s) }
func (c Color) String() string  { return enumName(colorNames, c) }
func (f Fabric) String() string { return enumName(fabricNames, f) }

func enumName[K comparable](names map[K]string, k K) string {
	if name, ok := names[k]; ok {
		return name
	}
	return fmt.Sprintf("unknown(%d)", any(k))
}

// Bag is the product sold by the store. Amount is the available stock and is
// mutated only by the inventory ledger during checkout.
type Bag struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ModelName string    `gorm:"not null;size:100" json:"model_name"`
	Brand     string    `gorm:"not null;size:50" json:"brand"`
	Size      Size      `gorm:"not null;default:3" json:"size"`
	Color     Color     `gorm:"not null;default:15" json:"color"`
	Fabric    Fabric    `gorm:"not null;default:7" json:"fabric"`
	Price     int64     `gorm:"not null;check:price > 0" json:"price"`
	Amount    int       `gorm:"not null;default:0;check:amount >= 0" json:"amount"`
	Photo     string    `gorm:"size:255" json:"photo,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides the table name
func (Bag) TableName() string {
	return "bags"
}

// DisplayName returns "Brand Model"
func (b *Bag) DisplayName() string {
	return fmt.Sprintf("%s %s", b.Brand, b.ModelName)
}

// InStock reports whether at least one unit is available
func (b *Bag) InStock() bool {
	return b.Amount > 0
}
