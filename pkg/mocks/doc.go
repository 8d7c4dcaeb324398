// Package mocks holds gomock doubles for the site's collaborator interfaces.
package mocks

//go:generate mockgen -destination=mock_weather.go -package=mocks github.com/foreman/foreman/pkg/weather Gate
//go:generate mockgen -destination=mock_notifier.go -package=mocks github.com/foreman/foreman/pkg/notifier Notifier
