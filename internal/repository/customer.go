package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/shopspring/decimal"
	"github.com/umalmyha/insurance-crm/internal/model"
	"github.com/umalmyha/insurance-crm/pkg/db/transactor"
)

// CustomerRepository represents behavior of customer repository.
// Contracts, meetings and files are stored and loaded together with customer.
type CustomerRepository interface {
	FindByID(context.Context, string) (*model.Customer, error)
	FindAll(context.Context) ([]*model.Customer, error)
	FindByPhoneNumber(context.Context, string) (*model.Customer, error)
	FindByContractNumber(context.Context, string) (*model.Customer, error)
	Create(context.Context, *model.Customer) error
	Update(context.Context, *model.Customer) error
	DeleteByID(context.Context, string) error
}

const customerColumns = `id, avatar, full_name, phone_number, date_of_birth, hamlet, commune, district, province, city,
	occupation, financial_status, family_info, location, classification, created_by, created_at, updated_at`

type sqlCustomerRepository struct {
	driver   string
	executor transactor.SQLWithinTransactionExecutor
}

// NewSQLCustomerRepository builds customer repository on top of sqlite or postgres
func NewSQLCustomerRepository(driver string, e transactor.SQLWithinTransactionExecutor) CustomerRepository {
	return &sqlCustomerRepository{driver: driver, executor: e}
}

func (r *sqlCustomerRepository) FindByID(ctx context.Context, id string) (*model.Customer, error) {
	q := rebind(r.driver, "SELECT "+customerColumns+" FROM customers WHERE id = ?")
	return r.findOne(ctx, q, id)
}

func (r *sqlCustomerRepository) FindByPhoneNumber(ctx context.Context, phone string) (*model.Customer, error) {
	q := rebind(r.driver, "SELECT "+customerColumns+" FROM customers WHERE phone_number = ? LIMIT 1")
	return r.findOne(ctx, q, phone)
}

func (r *sqlCustomerRepository) FindByContractNumber(ctx context.Context, number string) (*model.Customer, error) {
	q := rebind(r.driver, `SELECT `+customerColumns+` FROM customers
		WHERE id = (SELECT customer_id FROM insurance_contracts WHERE contract_number = ?)`)
	return r.findOne(ctx, q, number)
}

func (r *sqlCustomerRepository) FindAll(ctx context.Context) ([]*model.Customer, error) {
	q := "SELECT " + customerColumns + " FROM customers ORDER BY created_at, id"

	rows, err := r.executor.Executor(ctx).QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	customers := make([]*model.Customer, 0)
	byID := make(map[string]*model.Customer)
	for rows.Next() {
		c, err := r.scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		customers = append(customers, c)
		byID[c.ID] = c
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.loadContracts(ctx, byID, ""); err != nil {
		return nil, err
	}

	if err := r.loadMeetings(ctx, byID, ""); err != nil {
		return nil, err
	}

	if err := r.loadFiles(ctx, byID, ""); err != nil {
		return nil, err
	}

	return customers, nil
}

func (r *sqlCustomerRepository) Create(ctx context.Context, c *model.Customer) error {
	q := rebind(r.driver, `INSERT INTO customers(`+customerColumns+`)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)

	_, err := r.executor.Executor(ctx).ExecContext(
		ctx,
		q,
		c.ID,
		c.Avatar,
		c.FullName,
		c.PhoneNumber,
		formatTime(c.DateOfBirth),
		c.Address.Hamlet,
		c.Address.Commune,
		c.Address.District,
		c.Address.Province,
		c.Address.City,
		c.Occupation,
		c.FinancialStatus,
		c.FamilyInfo,
		c.Location,
		c.Classification,
		c.CreatedBy,
		formatInstant(c.CreatedAt),
		formatInstant(c.UpdatedAt),
	)
	if err != nil {
		return err
	}

	return r.insertChildren(ctx, c)
}

func (r *sqlCustomerRepository) Update(ctx context.Context, c *model.Customer) error {
	q := rebind(r.driver, `UPDATE customers SET avatar = ?, full_name = ?, phone_number = ?, date_of_birth = ?,
		hamlet = ?, commune = ?, district = ?, province = ?, city = ?, occupation = ?, financial_status = ?,
		family_info = ?, location = ?, classification = ?, updated_at = ?
		WHERE id = ?`)

	_, err := r.executor.Executor(ctx).ExecContext(
		ctx,
		q,
		c.Avatar,
		c.FullName,
		c.PhoneNumber,
		formatTime(c.DateOfBirth),
		c.Address.Hamlet,
		c.Address.Commune,
		c.Address.District,
		c.Address.Province,
		c.Address.City,
		c.Occupation,
		c.FinancialStatus,
		c.FamilyInfo,
		c.Location,
		c.Classification,
		formatInstant(c.UpdatedAt),
		c.ID,
	)
	if err != nil {
		return err
	}

	if err := r.deleteChildren(ctx, c.ID); err != nil {
		return err
	}
	return r.insertChildren(ctx, c)
}

func (r *sqlCustomerRepository) DeleteByID(ctx context.Context, id string) error {
	if err := r.deleteChildren(ctx, id); err != nil {
		return err
	}

	q := rebind(r.driver, "DELETE FROM customers WHERE id = ?")
	if _, err := r.executor.Executor(ctx).ExecContext(ctx, q, id); err != nil {
		return err
	}
	return nil
}

func (r *sqlCustomerRepository) findOne(ctx context.Context, q string, args ...any) (*model.Customer, error) {
	row := r.executor.Executor(ctx).QueryRowContext(ctx, q, args...)

	c, err := r.scanCustomer(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	byID := map[string]*model.Customer{c.ID: c}
	if err := r.loadContracts(ctx, byID, c.ID); err != nil {
		return nil, err
	}

	if err := r.loadMeetings(ctx, byID, c.ID); err != nil {
		return nil, err
	}

	if err := r.loadFiles(ctx, byID, c.ID); err != nil {
		return nil, err
	}

	return c, nil
}

func (r *sqlCustomerRepository) scanCustomer(row rowScanner) (*model.Customer, error) {
	var (
		c                               model.Customer
		dateOfBirth, createdAt, updated string
	)

	err := row.Scan(
		&c.ID,
		&c.Avatar,
		&c.FullName,
		&c.PhoneNumber,
		&dateOfBirth,
		&c.Address.Hamlet,
		&c.Address.Commune,
		&c.Address.District,
		&c.Address.Province,
		&c.Address.City,
		&c.Occupation,
		&c.FinancialStatus,
		&c.FamilyInfo,
		&c.Location,
		&c.Classification,
		&c.CreatedBy,
		&createdAt,
		&updated,
	)
	if err != nil {
		return nil, err
	}

	if c.DateOfBirth, err = parseTime(dateOfBirth); err != nil {
		return nil, err
	}

	if c.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}

	if c.UpdatedAt, err = parseTime(updated); err != nil {
		return nil, err
	}

	c.Contracts = make([]model.InsuranceContract, 0)
	c.Meetings = make([]model.MeetingRecord, 0)
	c.Files = make([]string, 0)
	return &c, nil
}

// children queries select rows of a single customer when customerID is set and of every customer otherwise
func (r *sqlCustomerRepository) childrenQuery(q, customerID string) (string, []any) {
	if customerID == "" {
		return q + " ORDER BY customer_id, position", nil
	}
	return rebind(r.driver, q+" WHERE customer_id = ? ORDER BY position"), []any{customerID}
}

func (r *sqlCustomerRepository) loadContracts(ctx context.Context, byID map[string]*model.Customer, customerID string) error {
	q, args := r.childrenQuery(`SELECT customer_id, id, company, contract_number, policy_details, join_date,
		premium_amount, payment_frequency, next_payment_date FROM insurance_contracts`, customerID)

	rows, err := r.executor.Executor(ctx).QueryContext(ctx, q, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			ownerID, joinDate, premium, nextPaymentDate string
			ic                                          model.InsuranceContract
		)

		err := rows.Scan(
			&ownerID,
			&ic.ID,
			&ic.Company,
			&ic.ContractNumber,
			&ic.PolicyDetails,
			&joinDate,
			&premium,
			&ic.PaymentFrequency,
			&nextPaymentDate,
		)
		if err != nil {
			return err
		}

		if ic.JoinDate, err = parseTime(joinDate); err != nil {
			return err
		}

		if ic.NextPaymentDate, err = parseTime(nextPaymentDate); err != nil {
			return err
		}

		if ic.PremiumAmount, err = decimal.NewFromString(premium); err != nil {
			return err
		}

		if c, ok := byID[ownerID]; ok {
			c.Contracts = append(c.Contracts, ic)
		}
	}

	return rows.Err()
}

func (r *sqlCustomerRepository) loadMeetings(ctx context.Context, byID map[string]*model.Customer, customerID string) error {
	q, args := r.childrenQuery("SELECT customer_id, id, meeting_date, notes, created_at FROM meeting_records", customerID)

	rows, err := r.executor.Executor(ctx).QueryContext(ctx, q, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			ownerID, date, createdAt string
			m                        model.MeetingRecord
		)

		if err := rows.Scan(&ownerID, &m.ID, &date, &m.Notes, &createdAt); err != nil {
			return err
		}

		if m.Date, err = parseTime(date); err != nil {
			return err
		}

		if m.CreatedAt, err = parseTime(createdAt); err != nil {
			return err
		}

		if c, ok := byID[ownerID]; ok {
			c.Meetings = append(c.Meetings, m)
		}
	}

	return rows.Err()
}

func (r *sqlCustomerRepository) loadFiles(ctx context.Context, byID map[string]*model.Customer, customerID string) error {
	q, args := r.childrenQuery("SELECT customer_id, path FROM customer_files", customerID)

	rows, err := r.executor.Executor(ctx).QueryContext(ctx, q, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var ownerID, path string
		if err := rows.Scan(&ownerID, &path); err != nil {
			return err
		}

		if c, ok := byID[ownerID]; ok {
			c.Files = append(c.Files, path)
		}
	}

	return rows.Err()
}

func (r *sqlCustomerRepository) insertChildren(ctx context.Context, c *model.Customer) error {
	exec := r.executor.Executor(ctx)

	contractQ := rebind(r.driver, `INSERT INTO insurance_contracts(id, customer_id, position, company, contract_number,
		policy_details, join_date, premium_amount, payment_frequency, next_payment_date)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	for i, ic := range c.Contracts {
		_, err := exec.ExecContext(
			ctx,
			contractQ,
			ic.ID,
			c.ID,
			i,
			ic.Company,
			ic.ContractNumber,
			ic.PolicyDetails,
			formatTime(ic.JoinDate),
			ic.PremiumAmount.String(),
			ic.PaymentFrequency,
			formatTime(ic.NextPaymentDate),
		)
		if err != nil {
			return err
		}
	}

	meetingQ := rebind(r.driver, `INSERT INTO meeting_records(id, customer_id, position, meeting_date, notes, created_at)
		VALUES(?, ?, ?, ?, ?, ?)`)
	for i, m := range c.Meetings {
		_, err := exec.ExecContext(ctx, meetingQ, m.ID, c.ID, i, formatTime(m.Date), m.Notes, formatInstant(m.CreatedAt))
		if err != nil {
			return err
		}
	}

	fileQ := rebind(r.driver, "INSERT INTO customer_files(customer_id, position, path) VALUES(?, ?, ?)")
	for i, f := range c.Files {
		if _, err := exec.ExecContext(ctx, fileQ, c.ID, i, f); err != nil {
			return err
		}
	}

	return nil
}

func (r *sqlCustomerRepository) deleteChildren(ctx context.Context, customerID string) error {
	exec := r.executor.Executor(ctx)

	for _, table := range []string{"insurance_contracts", "meeting_records", "customer_files"} {
		q := rebind(r.driver, "DELETE FROM "+table+" WHERE customer_id = ?")
		if _, err := exec.ExecContext(ctx, q, customerID); err != nil {
			return err
		}
	}
	return nil
}
