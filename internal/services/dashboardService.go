package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"

	"modshop/internal/models"
	"modshop/internal/repositories"
)

type DashboardService struct {
	Products         repositories.ProductRepository
	Services         repositories.ServiceRepository
	PriorityServices repositories.PriorityServiceRepository
	Inquiries        repositories.InquiryRepository
	Contacts         repositories.ContactRepository
	Users            repositories.UserRepository
	Orders           repositories.OrderRepository
}

func (s *DashboardService) GetDashboard(ctx context.Context) (*models.Dashboard, error) {
	var (
		d   models.Dashboard
		err error
	)
	all := bson.M{}

	if d.Products, err = s.Products.Count(ctx, all); err != nil {
		return nil, err
	}
	if d.Services, err = s.Services.Count(ctx, all); err != nil {
		return nil, err
	}
	if d.PriorityServices, err = s.PriorityServices.Count(ctx, all); err != nil {
		return nil, err
	}
	if d.Inquiries, err = s.Inquiries.Count(ctx, all); err != nil {
		return nil, err
	}
	if d.Contacts, err = s.Contacts.Count(ctx, all); err != nil {
		return nil, err
	}
	if d.Users, err = s.Users.Count(ctx, all); err != nil {
		return nil, err
	}
	if d.Orders, err = s.Orders.Count(ctx, all); err != nil {
		return nil, err
	}
	if d.OrdersByStatus, err = s.Orders.CountByStatus(ctx); err != nil {
		return nil, err
	}
	return &d, nil
}
