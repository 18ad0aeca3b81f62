package contracts

import "github.com/julienschmidt/httprouter"

// Handler is implemented by every domain handler so the application can
// mount courses, bookings, participants, trainers, users and orders
// uniformly.
type Handler interface {
	RegisterRoutes(*httprouter.Router)
}
