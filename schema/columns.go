package schema

// Column names of the crash records table.
const (
	ColID                 = "id"
	ColCollisionID        = "collision_id"
	ColCrashDate          = "crash_date"
	ColCrashTime          = "crash_time"
	ColBorough            = "borough"
	ColZipCode            = "zip_code"
	ColLatitude           = "latitude"
	ColLongitude          = "longitude"
	ColOnStreetName       = "on_street_name"
	ColPersonsInjured     = "persons_injured"
	ColPersonsKilled      = "persons_killed"
	ColContributingFactor = "contributing_factor"
	ColVehicleType        = "vehicle_type"
)

// InsertColumns lists the columns written by a bulk load, in order.
// The surrogate id is assigned by the store.
var InsertColumns = []string{
	ColCollisionID,
	ColCrashDate,
	ColCrashTime,
	ColBorough,
	ColZipCode,
	ColLatitude,
	ColLongitude,
	ColOnStreetName,
	ColPersonsInjured,
	ColPersonsKilled,
	ColContributingFactor,
	ColVehicleType,
}

// SelectColumns lists the columns read back for a record, in order.
var SelectColumns = append([]string{ColID}, InsertColumns...)
