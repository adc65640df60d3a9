// test/mocks/mocks.go

// Package mocks contains generated mocks for the application's interfaces.
// To regenerate mocks, run `go generate ./test/mocks` from the root directory.
package mocks

//go:generate mockgen -source=../../internal/core/ports/catalog.go -destination=catalog_repository_mock.go -package=mocks
//go:generate mockgen -source=../../internal/core/ports/orders.go -destination=order_repository_mock.go -package=mocks
//go:generate mockgen -source=../../internal/core/ports/returns.go -destination=return_repository_mock.go -package=mocks
//go:generate mockgen -source=../../internal/core/ports/sessions.go -destination=session_service_mock.go -package=mocks
//go:generate mockgen -source=../../internal/core/ports/cache.go -destination=cache_repository_mock.go -package=mocks
