// Package discovery describes which USB devices the manager will bind to.
//
// All controllers share vendor id 0x1FFB. Each hardware model has its own
// product id. A filter built without a model accepts any recognized model;
// a filter built with a serial number binds only to that unit.
//
//	f := discovery.NewFilter(discovery.ModelAny, "")
//	f := discovery.NewFilter(discovery.ModelT834, "00291234")
package discovery
