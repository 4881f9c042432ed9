package repository

import (
	assignmentRepo "cleaningmanager/database/repository/assignment"
	availabilityRepo "cleaningmanager/database/repository/availability"
	cleanerRepo "cleaningmanager/database/repository/cleaner"
	userRepo "cleaningmanager/database/repository/user"
	"cleaningmanager/database/store"
)

// Re-export the AssignmentRepository interface and constructor.
type AssignmentRepository = assignmentRepo.AssignmentRepository

var NewAssignmentRepository = assignmentRepo.NewAssignmentRepository

// Re-export the CleanerRepository interface and constructor.
type CleanerRepository = cleanerRepo.CleanerRepository

var NewCleanerRepository = cleanerRepo.NewCleanerRepository

// Re-export the availability and link repositories.
type AvailabilityRepository = availabilityRepo.AvailabilityRepository

type LinkRepository = availabilityRepo.LinkRepository

var (
	NewAvailabilityRepository = availabilityRepo.NewAvailabilityRepository
	NewLinkRepository         = availabilityRepo.NewLinkRepository
)

// Re-export the UserRepository interface and constructor.
type UserRepository = userRepo.UserRepository

var NewUserRepository = userRepo.NewUserRepository

// Set bundles every repository over one record store.
type Set struct {
	Assignments  AssignmentRepository
	Cleaners     CleanerRepository
	Availability AvailabilityRepository
	Links        LinkRepository
	Users        UserRepository
}

func NewSet(s store.RecordStore) Set {
	return Set{
		Assignments:  NewAssignmentRepository(s),
		Cleaners:     NewCleanerRepository(s),
		Availability: NewAvailabilityRepository(s),
		Links:        NewLinkRepository(s),
		Users:        NewUserRepository(s),
	}
}
