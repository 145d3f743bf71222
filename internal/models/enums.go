package models

// WarrantyStatus is the display status of a warranty.
type WarrantyStatus string

const (
	WarrantyActive       WarrantyStatus = "active"
	WarrantyExpiringSoon WarrantyStatus = "expiring_soon"
	WarrantyExpired      WarrantyStatus = "expired"
)

// Label returns the user-facing text for the status.
func (s WarrantyStatus) Label() string {
	switch s {
	case WarrantyActive:
		return "Active"
	case WarrantyExpiringSoon:
		return "Expiring soon"
	case WarrantyExpired:
		return "Expired"
	default:
		return "Unknown"
	}
}

// OrderStatus tracks an order through its lifecycle.
type OrderStatus string

const (
	OrderPlaced    OrderStatus = "placed"
	OrderShipped   OrderStatus = "shipped"
	OrderDelivered OrderStatus = "delivered"
	OrderReturned  OrderStatus = "returned"
)

// Label returns the user-facing text for the status.
func (s OrderStatus) Label() string {
	switch s {
	case OrderPlaced:
		return "Placed"
	case OrderShipped:
		return "Shipped"
	case OrderDelivered:
		return "Delivered"
	case OrderReturned:
		return "Returned"
	default:
		return "Unknown"
	}
}

// ManualFormat distinguishes manual document encodings.
type ManualFormat string

const (
	ManualMarkdown ManualFormat = "markdown"
	ManualHTML     ManualFormat = "html"
)

// CategoryIcon is the symbolic icon name shown for a category.
type CategoryIcon string

const (
	IconAppliance   CategoryIcon = "appliance"
	IconElectronics CategoryIcon = "electronics"
	IconFurniture   CategoryIcon = "furniture"
	IconTools       CategoryIcon = "tools"
	IconVehicle     CategoryIcon = "vehicle"
	IconOther       CategoryIcon = "other"
)

// CategoryColor is the accent color key for a category.
type CategoryColor string

const (
	ColorBlue   CategoryColor = "blue"
	ColorGreen  CategoryColor = "green"
	ColorOrange CategoryColor = "orange"
	ColorPurple CategoryColor = "purple"
	ColorRed    CategoryColor = "red"
	ColorGray   CategoryColor = "gray"
)
