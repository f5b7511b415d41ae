package server

//go:generate swag init -g internal/server/server.go -o docs/swagger

// @title ScanForge API
// @version 0.1
// @description Interactive documentation for the ScanForge scanning API surface.
// @contact.name ScanForge Maintainers
// @BasePath /
