package domain

// EarningsSummary is the driver's earnings tab.
type EarningsSummary struct {
	Today      float64 `json:"today"`
	ThisWeek   float64 `json:"thisWeek"`
	ThisMonth  float64 `json:"thisMonth"`
	TotalRides int     `json:"totalRides"`
	AvgRating  float64 `json:"avgRating"`
}

// VehicleInfo is the driver's registered vehicle.
type VehicleInfo struct {
	Name         string `json:"name,omitempty"`
	VehicleModel string `json:"vehicleModel" form:"vehicle_model"`
	LicensePlate string `json:"licensePlate" form:"license_plate"`
	Capacity     int    `json:"capacity"     form:"capacity"`
}

// PaymentRecord is one row of a passenger's payment history.
type PaymentRecord struct {
	ID     int64   `json:"id"`
	Date   string  `json:"date"`
	Ride   string  `json:"rideInfo"`
	Amount float64 `json:"amount"`
	Method string  `json:"method"`
	Status string  `json:"status"`
}

// Notification is a driver-facing notice.
type Notification struct {
	ID        int64  `json:"id"`
	Message   string `json:"message"`
	Read      bool   `json:"read"`
	CreatedAt string `json:"createdAt,omitempty"`
}

// RideDraft is the driver's "post ride" form.
type RideDraft struct {
	Source         string  `json:"source"         form:"source"          validate:"required"`
	Destination    string  `json:"destination"    form:"destination"     validate:"required"`
	Date           string  `json:"date"           form:"date"            validate:"required,datetime=2006-01-02"`
	Time           string  `json:"time,omitempty" form:"time"            validate:"omitempty,datetime=15:04"`
	AvailableSeats int     `json:"availableSeats" form:"available_seats" validate:"gte=1"`
	Price          float64 `json:"price"          form:"price"           validate:"gt=0"`
}

// RideQuery is the passenger's search form.
type RideQuery struct {
	Source      string `json:"source"      form:"source"      validate:"required"`
	Destination string `json:"destination" form:"destination" validate:"required"`
	Date        string `json:"date"        form:"date"        validate:"omitempty,datetime=2006-01-02"`
	Seats       int    `json:"seats"       form:"seats"       validate:"gte=1"`
}

// Registration is the sign-up payload. Vehicle fields only apply to drivers.
type Registration struct {
	Name         string `json:"name"                   form:"name"          validate:"required"`
	Email        string `json:"email"                  form:"email"         validate:"required,email"`
	Phone        string `json:"phone"                  form:"phone"         validate:"required,phone10"`
	Password     string `json:"password"               form:"password"      validate:"required,min=8"`
	Role         Role   `json:"role"                   form:"role"          validate:"required,oneof=DRIVER PASSENGER"`
	VehicleModel string `json:"vehicleModel,omitempty" form:"vehicle_model" validate:"required_if=Role DRIVER"`
	LicensePlate string `json:"licensePlate,omitempty" form:"license_plate" validate:"required_if=Role DRIVER"`
	Capacity     int    `json:"capacity,omitempty"     form:"capacity"      validate:"required_if=Role DRIVER,gte=0"`
}
