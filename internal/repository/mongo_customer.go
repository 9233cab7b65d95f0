package repository

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"github.com/umalmyha/insurance-crm/internal/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const customersCollection = "customers"

// birth date is kept as calendar date, mongo would shift it to UTC otherwise
const birthDateLayout = "2006-01-02"

type mongoContract struct {
	ID               string    `bson:"id"`
	Company          string    `bson:"company"`
	ContractNumber   string    `bson:"contractNumber"`
	PolicyDetails    string    `bson:"policyDetails"`
	JoinDate         time.Time `bson:"joinDate"`
	PremiumAmount    string    `bson:"premiumAmount"`
	PaymentFrequency string    `bson:"paymentFrequency"`
	NextPaymentDate  time.Time `bson:"nextPaymentDate"`
}

type mongoMeeting struct {
	ID        string    `bson:"id"`
	Date      time.Time `bson:"date"`
	Notes     string    `bson:"notes"`
	CreatedAt time.Time `bson:"createdAt"`
}

type mongoCustomer struct {
	ID              string          `bson:"_id"`
	Avatar          string          `bson:"avatar"`
	FullName        string          `bson:"fullName"`
	PhoneNumber     string          `bson:"phoneNumber"`
	DateOfBirth     string          `bson:"dateOfBirth"`
	Address         model.Address   `bson:"address"`
	Occupation      string          `bson:"occupation"`
	FinancialStatus string          `bson:"financialStatus"`
	FamilyInfo      string          `bson:"familyInfo"`
	Location        string          `bson:"location"`
	Classification  string          `bson:"classification"`
	Contracts       []mongoContract `bson:"insuranceContracts"`
	Meetings        []mongoMeeting  `bson:"meetingRecords"`
	Files           []string        `bson:"files"`
	CreatedBy       string          `bson:"createdBy"`
	CreatedAt       time.Time       `bson:"createdAt"`
	UpdatedAt       time.Time       `bson:"updatedAt"`
}

type mongoCustomerRepository struct {
	collection *mongo.Collection
}

// NewMongoCustomerRepository builds customer repository which keeps every customer as single document
func NewMongoCustomerRepository(client *mongo.Client, database string) CustomerRepository {
	return &mongoCustomerRepository{collection: client.Database(database).Collection(customersCollection)}
}

func (r *mongoCustomerRepository) FindByID(ctx context.Context, id string) (*model.Customer, error) {
	return r.findOne(ctx, bson.D{{Key: "_id", Value: id}})
}

func (r *mongoCustomerRepository) FindByPhoneNumber(ctx context.Context, phone string) (*model.Customer, error) {
	return r.findOne(ctx, bson.D{{Key: "phoneNumber", Value: phone}})
}

func (r *mongoCustomerRepository) FindByContractNumber(ctx context.Context, number string) (*model.Customer, error) {
	return r.findOne(ctx, bson.D{{Key: "insuranceContracts.contractNumber", Value: number}})
}

func (r *mongoCustomerRepository) FindAll(ctx context.Context) ([]*model.Customer, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	customers := make([]*model.Customer, 0)
	for cursor.Next(ctx) {
		var doc mongoCustomer
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}

		c, err := doc.toModel()
		if err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}

	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return customers, nil
}

func (r *mongoCustomerRepository) Create(ctx context.Context, c *model.Customer) error {
	if _, err := r.collection.InsertOne(ctx, toMongoCustomer(c)); err != nil {
		return err
	}
	return nil
}

func (r *mongoCustomerRepository) Update(ctx context.Context, c *model.Customer) error {
	if _, err := r.collection.ReplaceOne(ctx, bson.D{{Key: "_id", Value: c.ID}}, toMongoCustomer(c)); err != nil {
		return err
	}
	return nil
}

func (r *mongoCustomerRepository) DeleteByID(ctx context.Context, id string) error {
	if _, err := r.collection.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}}); err != nil {
		return err
	}
	return nil
}

func (r *mongoCustomerRepository) findOne(ctx context.Context, filter bson.D) (*model.Customer, error) {
	var doc mongoCustomer
	if err := r.collection.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return doc.toModel()
}

func toMongoCustomer(c *model.Customer) *mongoCustomer {
	doc := &mongoCustomer{
		ID:              c.ID,
		Avatar:          c.Avatar,
		FullName:        c.FullName,
		PhoneNumber:     c.PhoneNumber,
		Address:         c.Address,
		Occupation:      c.Occupation,
		FinancialStatus: c.FinancialStatus,
		FamilyInfo:      c.FamilyInfo,
		Location:        c.Location,
		Classification:  string(c.Classification),
		Contracts:       make([]mongoContract, 0, len(c.Contracts)),
		Meetings:        make([]mongoMeeting, 0, len(c.Meetings)),
		Files:           append(make([]string, 0, len(c.Files)), c.Files...),
		CreatedBy:       c.CreatedBy,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}

	if !c.DateOfBirth.IsZero() {
		doc.DateOfBirth = c.DateOfBirth.Format(birthDateLayout)
	}

	for _, ic := range c.Contracts {
		doc.Contracts = append(doc.Contracts, mongoContract{
			ID:               ic.ID,
			Company:          ic.Company,
			ContractNumber:   ic.ContractNumber,
			PolicyDetails:    ic.PolicyDetails,
			JoinDate:         ic.JoinDate,
			PremiumAmount:    ic.PremiumAmount.String(),
			PaymentFrequency: string(ic.PaymentFrequency),
			NextPaymentDate:  ic.NextPaymentDate,
		})
	}

	for _, m := range c.Meetings {
		doc.Meetings = append(doc.Meetings, mongoMeeting(m))
	}

	return doc
}

// mongo keeps times with millisecond precision in UTC
func (d *mongoCustomer) toModel() (*model.Customer, error) {
	c := &model.Customer{
		ID:              d.ID,
		Avatar:          d.Avatar,
		FullName:        d.FullName,
		PhoneNumber:     d.PhoneNumber,
		Address:         d.Address,
		Occupation:      d.Occupation,
		FinancialStatus: d.FinancialStatus,
		FamilyInfo:      d.FamilyInfo,
		Location:        d.Location,
		Classification:  model.Classification(d.Classification),
		Contracts:       make([]model.InsuranceContract, 0, len(d.Contracts)),
		Meetings:        make([]model.MeetingRecord, 0, len(d.Meetings)),
		Files:           append(make([]string, 0, len(d.Files)), d.Files...),
		CreatedBy:       d.CreatedBy,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}

	if d.DateOfBirth != "" {
		dob, err := time.Parse(birthDateLayout, d.DateOfBirth)
		if err != nil {
			return nil, err
		}
		c.DateOfBirth = dob
	}

	for _, ic := range d.Contracts {
		premium, err := decimal.NewFromString(ic.PremiumAmount)
		if err != nil {
			return nil, err
		}

		c.Contracts = append(c.Contracts, model.InsuranceContract{
			ID:               ic.ID,
			Company:          ic.Company,
			ContractNumber:   ic.ContractNumber,
			PolicyDetails:    ic.PolicyDetails,
			JoinDate:         ic.JoinDate,
			PremiumAmount:    premium,
			PaymentFrequency: model.PaymentFrequency(ic.PaymentFrequency),
			NextPaymentDate:  ic.NextPaymentDate,
		})
	}

	for _, m := range d.Meetings {
		c.Meetings = append(c.Meetings, model.MeetingRecord(m))
	}

	return c, nil
}
