package attendance

import "errors"

var (
	ErrLocationOutOfRange  = errors.New("Location out of allowed radius")
	ErrImageRequired       = errors.New("Image is required for Work From Home")
	ErrCoordinatesRequired = errors.New("latitude and longitude are required for office check-in")
	ErrInvalidCoordinates  = errors.New("latitude and longitude must be valid coordinates")
	ErrInvalidCategory     = errors.New("attendance_category must be Office or Home")
	ErrInvalidAction       = errors.New("action must be checkin or checkout")
	ErrAlreadyCheckedIn    = errors.New("you have already checked in today")
	ErrNoActiveCheckIn     = errors.New("no active check-in")
)
