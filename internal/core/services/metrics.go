package services

import "github.com/AchilleasB/volunteer-hub/marketplace-service/internal/core/ports"

type nopMetrics struct{}

func (nopMetrics) RoleResolved(string)          {}
func (nopMetrics) RegistrationChanged(string)   {}
func (nopMetrics) AccessDecided(string, string) {}

func orNop(m ports.Metrics) ports.Metrics {
	if m == nil {
		return nopMetrics{}
	}
	return m
}
