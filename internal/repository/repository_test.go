package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"github.com/umalmyha/insurance-crm/internal/model"
	"github.com/umalmyha/insurance-crm/pkg/db/transactor"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	// sqlite driver registered as "sqlite"
	_ "modernc.org/sqlite"
)

const (
	connectionTimeout = 3 * time.Second
)

const (
	mongoContainerName = "mongo-test-insurance-crm"
	mongoPort          = "27017"
	mongoTestUser      = "test"
	mongoTestPassword  = "test"
	mongoTestDB        = "crm-test"
)

// mongoClient is nil when docker is not available
var mongoClient *mongo.Client

func TestMain(m *testing.M) {
	purge := startMongo()

	// start tests
	code := m.Run()

	purge()
	os.Exit(code)
}

// startMongo runs mongo container, tests which require mongo are skipped if it can't be started
func startMongo() func() {
	noop := func() {}

	dockerPool, err := dockertest.NewPool("")
	if err != nil {
		logrus.Warnf("failed to create docker pool, mongo tests are skipped - %v", err)
		return noop
	}

	if err := dockerPool.Client.Ping(); err != nil {
		logrus.Warnf("failed to connect to docker, mongo tests are skipped - %v", err)
		return noop
	}

	mongodb, err := dockerPool.RunWithOptions(&dockertest.RunOptions{
		Name:       mongoContainerName,
		Repository: "mongo",
		Tag:        "latest",
		Env: []string{
			fmt.Sprintf("MONGO_INITDB_ROOT_USERNAME=%s", mongoTestUser),
			fmt.Sprintf("MONGO_INITDB_ROOT_PASSWORD=%s", mongoTestPassword),
		},
		PortBindings: map[docker.Port][]docker.PortBinding{
			"27017/tcp": {{HostIP: "localhost", HostPort: fmt.Sprintf("%s/tcp", mongoPort)}},
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
	})
	if err != nil {
		logrus.Warnf("failed to start mongodb, mongo tests are skipped - %v", err)
		return noop
	}

	purge := func() {
		if err := dockerPool.Purge(mongodb); err != nil {
			logrus.Errorf("failed to purge mongodb - %v", err)
		}
	}

	mongoURI := fmt.Sprintf("mongodb://%s:%s@localhost:%s/?maxPoolSize=100", mongoTestUser, mongoTestPassword, mongoPort)
	err = dockerPool.Retry(func() error {
		ctx, cancel := context.WithTimeout(context.Background(), connectionTimeout)
		defer cancel()

		client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
		if err != nil {
			return err
		}

		if err := client.Ping(ctx, readpref.Primary()); err != nil {
			_ = client.Disconnect(context.Background())
			return err
		}

		mongoClient = client
		return nil
	})
	if err != nil {
		logrus.Warnf("failed to establish connection to mongodb, mongo tests are skipped - %v", err)
	}

	return purge
}

// newTestDB opens private in-memory sqlite database with schema applied
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open(SQLiteDriver, ":memory:")
	require.NoError(t, err, "failed to open sqlite database")

	// every connection to :memory: gets its own database
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), connectionTimeout)
	defer cancel()

	_, err = db.ExecContext(ctx, "PRAGMA foreign_keys = ON")
	require.NoError(t, err, "failed to enable foreign keys")

	require.NoError(t, Migrate(ctx, db), "failed to apply schema")
	return db
}

func TestUserRps(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db := newTestDB(t)
	userRps := NewSQLUserRepository(SQLiteDriver, transactor.NewSQLWithinTransactionExecutor(db))

	u := &model.User{
		ID:           "f9771714-df35-4186-b1f1-57fba3e5d3f2",
		Email:        "agent1@somemail.com",
		FullName:     "Phạm Minh Đức",
		Role:         model.RoleManager,
		PhoneNumber:  "0987654321",
		CreatedAt:    time.Date(2024, time.January, 2, 8, 0, 0, 0, time.UTC),
		PasswordHash: "f929cb58673be0a35fcb22ad7f147bd1",
	}

	t.Log("create user")
	{
		err := userRps.Create(ctx, u)
		require.NoError(t, err, "failed to create user")
	}

	t.Log("find user by id")
	{
		dbUser, err := userRps.FindByID(ctx, u.ID)
		require.NoError(t, err, "failed to read user by id")
		require.NotNil(t, dbUser, "user was created recently but not found by id")
		require.Equal(t, u.Role, dbUser.Role, "role must be stored")
		require.Equal(t, u.PasswordHash, dbUser.PasswordHash, "password hash must be stored")
		require.True(t, u.CreatedAt.Equal(dbUser.CreatedAt), "creation time must be stored")
	}

	t.Log("find user by email")
	{
		dbUser, err := userRps.FindByEmail(ctx, u.Email)
		require.NoError(t, err, "failed to read user by email")
		require.NotNil(t, dbUser, "user was created recently but not found by email")
	}

	t.Log("find missing user")
	{
		dbUser, err := userRps.FindByEmail(ctx, "missing@somemail.com")
		require.NoError(t, err, "missing user is not an error")
		require.Nil(t, dbUser, "user doesn't exist but was found")
	}

	t.Log("create user duplicate")
	{
		err := userRps.Create(ctx, u)
		require.Error(t, err, "aimed to create user duplicate but no error raised")
	}

	t.Log("find all users")
	{
		users, err := userRps.FindAll(ctx)
		require.NoError(t, err, "failed to read users")
		require.Len(t, users, 1, "single user was created")
	}
}

func TestRefreshTokenRps(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	expiresIn := 3000
	fingerprint := "b86de171-7481-4b57-a012-765e6e34e2c2"
	createdAt := time.Now().UTC()

	db := newTestDB(t)
	executor := transactor.NewSQLWithinTransactionExecutor(db)
	userRps := NewSQLUserRepository(SQLiteDriver, executor)
	rfrTokenRps := NewSQLRefreshTokenRepository(SQLiteDriver, executor)

	userJohn := &model.User{
		ID:           "afa94457-c29a-4569-a4aa-0ae3b7e5a255",
		Email:        "john@somemail.com",
		Role:         model.RoleStaff,
		CreatedAt:    createdAt,
		PasswordHash: "7c9fb260749f6d1cf54530450ac97f72",
	}

	userHenry := &model.User{
		ID:           "0583d7f3-5ae1-416a-92fa-120851905551",
		Email:        "henry@somemail.com",
		Role:         model.RoleStaff,
		CreatedAt:    createdAt,
		PasswordHash: "966ac2a7543413f3368a2fc3ca889f98",
	}

	// john has 2 tokens and henry has 1 token
	refreshTokens := []*model.RefreshToken{
		{
			ID:          "19264f8d-8862-47e0-9892-44930e2de59f",
			UserID:      userJohn.ID,
			Fingerprint: fingerprint,
			ExpiresIn:   expiresIn,
			CreatedAt:   createdAt,
		},
		{
			ID:          "55ed2faa-de40-4344-a512-0ffbc43d4184",
			UserID:      userJohn.ID,
			Fingerprint: fingerprint,
			ExpiresIn:   expiresIn,
			CreatedAt:   createdAt,
		},
		{
			ID:          "112a54c0-e744-4712-8acf-59e6b1a386e5",
			UserID:      userHenry.ID,
			Fingerprint: fingerprint,
			ExpiresIn:   expiresIn,
			CreatedAt:   createdAt,
		},
	}

	henryToken := refreshTokens[2]

	t.Log("reference users must be added")
	{
		err := userRps.Create(ctx, userJohn)
		require.NoError(t, err, "failed to create user %s", userJohn.Email)

		err = userRps.Create(ctx, userHenry)
		require.NoError(t, err, "failed to create user %s", userHenry.Email)
	}

	t.Logf("create %d tokens", len(refreshTokens))
	{
		for _, tkn := range refreshTokens {
			err := rfrTokenRps.Create(ctx, tkn)
			require.NoError(t, err, "failed to create token %s", tkn.ID)
		}
	}

	t.Log("token of unknown user is rejected")
	{
		err := rfrTokenRps.Create(ctx, &model.RefreshToken{
			ID:        "2b1f6ac1-5a43-4c4d-9a3e-d0c3f1f9e001",
			UserID:    "unknown",
			CreatedAt: createdAt,
		})
		require.Error(t, err, "user doesn't exist but token was created")
	}

	t.Logf("find tokens for user %s", userJohn.Email)
	{
		johnDBTokens, err := rfrTokenRps.FindTokensByUserID(ctx, userJohn.ID)
		require.NoError(t, err, "failed to read tokens")
		expected := 2
		actual := len(johnDBTokens)
		require.Equal(t, expected, actual, "%d tokens where created for user %s, got %d", expected, userJohn.Email, actual)
	}

	t.Logf("delete tokens for user %s", userJohn.Email)
	{
		err := rfrTokenRps.DeleteByUserID(ctx, userJohn.ID)
		require.NoError(t, err, "failed to delete token")
	}

	t.Logf("verify that tokens are not present in database")
	{
		johnDBTokens, err := rfrTokenRps.FindTokensByUserID(ctx, userJohn.ID)
		require.NoError(t, err, "failed to read tokens")
		expected := 0
		actual := len(johnDBTokens)
		require.Equal(t, expected, actual, "user %s tokens where deleted, but got %d tokens", userJohn.Email, actual)
	}

	t.Logf("find user %s single token", userHenry.Email)
	{
		henryDBToken, err := rfrTokenRps.FindByID(ctx, henryToken.ID)
		require.NoError(t, err, "failed to read token")
		require.NotNil(t, henryDBToken, "token was created for user %s, but not found in database", userHenry.Email)
		require.Equal(t, expiresIn, henryDBToken.ExpiresIn, "expires in must be stored")
		require.False(t, henryDBToken.Expired(createdAt.Add(time.Minute)), "token must not be expired yet")
	}

	t.Logf("delete user %s token", userHenry.Email)
	{
		err := rfrTokenRps.DeleteByID(ctx, henryToken.ID)
		require.NoError(t, err, "failed to delete token")
	}

	t.Logf("verify user %s token was deleted", userHenry.Email)
	{
		henryDBToken, err := rfrTokenRps.FindByID(ctx, henryToken.ID)
		require.NoError(t, err, "failed to read token")
		require.Nil(t, henryDBToken, "token for user %s was deleted, but still present in database", userHenry.Email)
	}
}

func TestLearningContentRps(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db := newTestDB(t)
	learningRps := NewSQLLearningContentRepository(SQLiteDriver, transactor.NewSQLWithinTransactionExecutor(db))

	ict := time.FixedZone("ICT", 7*60*60)
	contents := []*model.LearningContent{
		{
			ID:        "d1a1c3c0-0e1f-4a3b-8f5e-6b7c8d9e0a01",
			Title:     "Quy trình bồi thường",
			Type:      model.LearningPDF,
			URL:       "/files/claims.pdf",
			CreatedAt: time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC),
		},
		{
			// 2024-03-01 08:00 UTC, earlier than the first one while its text sorts later
			ID:        "d1a1c3c0-0e1f-4a3b-8f5e-6b7c8d9e0a02",
			Title:     "Sản phẩm mới",
			Type:      model.LearningAnnouncement,
			CreatedAt: time.Date(2024, time.March, 1, 15, 0, 0, 0, ict),
		},
		{
			ID:        "d1a1c3c0-0e1f-4a3b-8f5e-6b7c8d9e0a03",
			Title:     "Kỹ năng tư vấn",
			Type:      model.LearningVideo,
			URL:       "https://www.youtube.com/watch?v=abc",
			CreatedAt: time.Date(2024, time.March, 2, 9, 0, 0, 0, time.UTC),
		},
	}

	t.Logf("create %d learning contents", len(contents))
	{
		for _, lc := range contents {
			err := learningRps.Create(ctx, lc)
			require.NoError(t, err, "failed to create learning content %s", lc.ID)
		}
	}

	t.Log("learning contents are returned newest first")
	{
		dbContents, err := learningRps.FindAll(ctx)
		require.NoError(t, err, "failed to read learning contents")
		require.Len(t, dbContents, 3)
		require.Equal(t, contents[2].ID, dbContents[0].ID)
		require.Equal(t, contents[0].ID, dbContents[1].ID)
		require.Equal(t, contents[1].ID, dbContents[2].ID)
	}

	t.Log("delete learning content")
	{
		err := learningRps.DeleteByID(ctx, contents[0].ID)
		require.NoError(t, err, "failed to delete learning content")

		dbContents, err := learningRps.FindAll(ctx)
		require.NoError(t, err, "failed to read learning contents")
		require.Len(t, dbContents, 2)
	}
}

func TestSQLCustomerRps(t *testing.T) {
	db := newTestDB(t)
	customerRps := NewSQLCustomerRepository(SQLiteDriver, transactor.NewSQLWithinTransactionExecutor(db))
	t.Log("running tests for sqlite")
	testCustomerRps(t, customerRps)
}

func TestSQLCustomerRpsCreationOrder(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db := newTestDB(t)
	customerRps := NewSQLCustomerRepository(SQLiteDriver, transactor.NewSQLWithinTransactionExecutor(db))

	ict := time.FixedZone("ICT", 7*60*60)
	customers := []*model.Customer{
		{
			ID:             "a0000000-0000-4000-8000-000000000001",
			FullName:       "Half Second Later",
			PhoneNumber:    "0901000001",
			Classification: model.ClassificationSigned,
			CreatedAt:      time.Date(2024, time.March, 10, 9, 30, 0, 500_000_000, time.UTC),
		},
		{
			ID:             "a0000000-0000-4000-8000-000000000002",
			FullName:       "Whole Second",
			PhoneNumber:    "0901000002",
			Classification: model.ClassificationSigned,
			CreatedAt:      time.Date(2024, time.March, 10, 9, 30, 0, 0, time.UTC),
		},
		{
			// 09:29:59 UTC
			ID:             "a0000000-0000-4000-8000-000000000003",
			FullName:       "Local Offset",
			PhoneNumber:    "0901000003",
			Classification: model.ClassificationSigned,
			CreatedAt:      time.Date(2024, time.March, 10, 16, 29, 59, 0, ict),
		},
	}
	for _, c := range customers {
		c.UpdatedAt = c.CreatedAt
	}

	t.Log("create customers")
	{
		for _, c := range customers {
			require.NoError(t, customerRps.Create(ctx, c), "failed to create customer %s", c.ID)
		}
	}

	t.Log("customers are read in creation order regardless of fraction and offset")
	{
		dbCustomers, err := customerRps.FindAll(ctx)
		require.NoError(t, err, "failed to read customers")
		require.Len(t, dbCustomers, 3)
		require.Equal(t, customers[2].ID, dbCustomers[0].ID)
		require.Equal(t, customers[1].ID, dbCustomers[1].ID)
		require.Equal(t, customers[0].ID, dbCustomers[2].ID)
		require.True(t, customers[0].CreatedAt.Equal(dbCustomers[2].CreatedAt), "creation time must be kept")
	}
}

func TestMongoCustomerRps(t *testing.T) {
	if mongoClient == nil {
		t.Skip("mongodb is not available")
	}

	customerRps := NewMongoCustomerRepository(mongoClient, mongoTestDB)
	t.Log("running tests for mongo")
	testCustomerRps(t, customerRps)
}

func TestSQLCustomerRpsWithinTransaction(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db := newTestDB(t)
	txr := transactor.NewSQLTransactor(db)
	customerRps := NewSQLCustomerRepository(SQLiteDriver, transactor.NewSQLWithinTransactionExecutor(db))

	customers := testCustomers()
	errAbort := errors.New("abort")

	t.Log("customer created within failed transaction is rolled back")
	{
		err := txr.WithinTransaction(ctx, func(ctx context.Context) error {
			if err := customerRps.Create(ctx, customers[0]); err != nil {
				return err
			}

			// nested call joins outer transaction
			err := txr.WithinTransaction(ctx, func(ctx context.Context) error {
				dbCustomer, err := customerRps.FindByID(ctx, customers[0].ID)
				if err != nil {
					return err
				}
				require.NotNil(t, dbCustomer, "customer must be visible within transaction")
				return nil
			})
			if err != nil {
				return err
			}
			return errAbort
		})
		require.ErrorIs(t, err, errAbort, "transaction error must be raised up")

		dbCustomer, err := customerRps.FindByID(ctx, customers[0].ID)
		require.NoError(t, err, "failed to read customer")
		require.Nil(t, dbCustomer, "transaction was rolled back, but customer is present")
	}

	t.Log("customer created within committed transaction is stored")
	{
		err := txr.WithinTransaction(ctx, func(ctx context.Context) error {
			return customerRps.Create(ctx, customers[0])
		})
		require.NoError(t, err, "failed to commit transaction")

		dbCustomer, err := customerRps.FindByID(ctx, customers[0].ID)
		require.NoError(t, err, "failed to read customer")
		require.NotNil(t, dbCustomer, "transaction was committed, but customer is missing")
	}

	t.Log("contract number is unique across customers")
	{
		dup := customers[1]
		dup.Contracts = []model.InsuranceContract{customers[0].Contracts[0]}
		dup.Contracts[0].ID = "bb6b5b0e-4c21-4a57-8b7e-98dd0c8e4f99"

		err := txr.WithinTransaction(ctx, func(ctx context.Context) error {
			return customerRps.Create(ctx, dup)
		})
		require.Error(t, err, "contract number is reserved but no error raised")

		dbCustomer, err := customerRps.FindByID(ctx, dup.ID)
		require.NoError(t, err, "failed to read customer")
		require.Nil(t, dbCustomer, "failed insert must not leave customer behind")
	}
}

func TestRebind(t *testing.T) {
	q := "SELECT id FROM customers WHERE phone_number = ? AND classification = ?"

	t.Log("sqlite keeps question placeholders")
	{
		require.Equal(t, q, rebind(SQLiteDriver, q))
	}

	t.Log("postgres gets numbered placeholders")
	{
		require.Equal(t, "SELECT id FROM customers WHERE phone_number = $1 AND classification = $2", rebind(PostgresDriver, q))
	}
}

func testCustomers() []*model.Customer {
	createdAt := time.Date(2024, time.February, 1, 9, 30, 0, 0, time.UTC)

	return []*model.Customer{
		{
			ID:          "53b9062b-0f45-4671-8c01-52fce0d8c750",
			FullName:    "Nguyễn Văn An",
			PhoneNumber: "0901234567",
			DateOfBirth: time.Date(1985, time.February, 28, 0, 0, 0, 0, time.UTC),
			Address: model.Address{
				Hamlet:   "Ấp 3",
				Commune:  "Xã Tân Phú",
				District: "Huyện Châu Thành",
				Province: "Tiền Giang",
			},
			Occupation:     "Giáo viên",
			Classification: model.ClassificationSigned,
			Contracts: []model.InsuranceContract{
				{
					ID:               "7c4b1b50-08d8-4a6e-a0a4-0b4c8f7a9a10",
					Company:          "Prudential",
					ContractNumber:   "PRU-0001",
					JoinDate:         time.Date(2023, time.January, 15, 0, 0, 0, 0, time.UTC),
					PremiumAmount:    decimal.RequireFromString("1500000.50"),
					PaymentFrequency: model.PaymentMonthly,
					NextPaymentDate:  time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC),
				},
				{
					ID:               "8d5c2c61-19e9-4b7f-b1b5-1c5d9f8bab21",
					Company:          "Manulife",
					ContractNumber:   "MNL-0002",
					JoinDate:         time.Date(2022, time.June, 20, 0, 0, 0, 0, time.UTC),
					PremiumAmount:    decimal.NewFromInt(12000000),
					PaymentFrequency: model.PaymentAnnual,
					NextPaymentDate:  time.Date(2024, time.June, 20, 0, 0, 0, 0, time.UTC),
				},
			},
			Meetings: []model.MeetingRecord{
				{
					ID:        "9e6d3d72-2afa-4c80-82c6-2d6e0a9cbc32",
					Date:      time.Date(2024, time.March, 12, 2, 0, 0, 0, time.UTC),
					Notes:     "tư vấn gói hưu trí",
					CreatedAt: createdAt,
				},
			},
			Files:     []string{"53b9062b/contract.pdf", "53b9062b/id-card.jpg"},
			CreatedBy: "f9771714-df35-4186-b1f1-57fba3e5d3f2",
			CreatedAt: createdAt,
			UpdatedAt: createdAt,
		},
		{
			ID:             "48fa2e4f-7937-4257-ac61-a42ef9f45f69",
			FullName:       "Trần Thị Bình",
			PhoneNumber:    "0912345678",
			Classification: model.ClassificationPotential,
			Contracts:      make([]model.InsuranceContract, 0),
			Meetings:       make([]model.MeetingRecord, 0),
			Files:          make([]string, 0),
			CreatedAt:      createdAt.Add(time.Hour),
			UpdatedAt:      createdAt.Add(time.Hour),
		},
		{
			ID:             "3b9974de-ed71-4a5d-9121-42213e526234",
			FullName:       "Lê Văn Cường",
			PhoneNumber:    "0923456789",
			DateOfBirth:    time.Date(1992, time.February, 29, 0, 0, 0, 0, time.UTC),
			Classification: model.ClassificationDropped,
			Contracts:      make([]model.InsuranceContract, 0),
			Meetings:       make([]model.MeetingRecord, 0),
			Files:          make([]string, 0),
			CreatedAt:      createdAt.Add(2 * time.Hour),
			UpdatedAt:      createdAt.Add(2 * time.Hour),
		},
	}
}

func requireSameCustomer(t *testing.T, expected, actual *model.Customer) {
	t.Helper()

	require.Equal(t, expected.ID, actual.ID)
	require.Equal(t, expected.FullName, actual.FullName)
	require.Equal(t, expected.PhoneNumber, actual.PhoneNumber)
	require.Equal(t, expected.Address, actual.Address)
	require.Equal(t, expected.Occupation, actual.Occupation)
	require.Equal(t, expected.Classification, actual.Classification)
	require.Equal(t, expected.CreatedBy, actual.CreatedBy)
	require.Equal(t, expected.Files, actual.Files)
	require.True(t, expected.CreatedAt.Equal(actual.CreatedAt), "creation time differs")
	require.True(t, expected.UpdatedAt.Equal(actual.UpdatedAt), "update time differs")

	ey, em, ed := expected.DateOfBirth.Date()
	ay, am, ad := actual.DateOfBirth.Date()
	require.Equal(t, expected.DateOfBirth.IsZero(), actual.DateOfBirth.IsZero(), "date of birth presence differs")
	if !expected.DateOfBirth.IsZero() {
		require.Equal(t, []int{ey, int(em), ed}, []int{ay, int(am), ad}, "calendar date of birth differs")
	}

	require.Len(t, actual.Contracts, len(expected.Contracts))
	for i := range expected.Contracts {
		e, a := expected.Contracts[i], actual.Contracts[i]
		require.Equal(t, e.ID, a.ID, "contracts order must be kept")
		require.Equal(t, e.Company, a.Company)
		require.Equal(t, e.ContractNumber, a.ContractNumber)
		require.Equal(t, e.PaymentFrequency, a.PaymentFrequency)
		require.True(t, e.PremiumAmount.Equal(a.PremiumAmount), "premium %s differs from %s", a.PremiumAmount, e.PremiumAmount)
		require.True(t, e.JoinDate.Equal(a.JoinDate), "join date differs")
		require.True(t, e.NextPaymentDate.Equal(a.NextPaymentDate), "next payment date differs")
	}

	require.Len(t, actual.Meetings, len(expected.Meetings))
	for i := range expected.Meetings {
		e, a := expected.Meetings[i], actual.Meetings[i]
		require.Equal(t, e.ID, a.ID, "meetings order must be kept")
		require.Equal(t, e.Notes, a.Notes)
		require.True(t, e.Date.Equal(a.Date), "meeting date differs")
	}
}

func testCustomerRps(t *testing.T, customerRps CustomerRepository) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	customers := testCustomers()
	customerAn := customers[0]

	customerAnUpd := *customerAn
	customerAnUpd.PhoneNumber = "0909999999"
	customerAnUpd.Classification = model.ClassificationDropped
	customerAnUpd.Contracts = []model.InsuranceContract{customerAn.Contracts[1]}
	customerAnUpd.Meetings = append([]model.MeetingRecord{}, customerAn.Meetings...)
	customerAnUpd.Meetings = append(customerAnUpd.Meetings, model.MeetingRecord{
		ID:        "af7e4e83-3b0b-4d91-93d7-3e7f1bad0d43",
		Date:      time.Date(2024, time.April, 2, 3, 0, 0, 0, time.UTC),
		Notes:     "ký hợp đồng bổ sung",
		CreatedAt: customerAn.CreatedAt,
	})
	customerAnUpd.Files = []string{"53b9062b/contract.pdf"}
	customerAnUpd.UpdatedAt = customerAn.UpdatedAt.Add(24 * time.Hour)

	t.Logf("create %d customers", len(customers))
	{
		for _, c := range customers {
			err := customerRps.Create(ctx, c)
			require.NoError(t, err, "failed to create customer")
		}
	}

	t.Logf("verify %d customers in database", len(customers))
	{
		dbCustomers, err := customerRps.FindAll(ctx)
		require.NoError(t, err, "failed to read customers")
		expected := len(customers)
		actual := len(dbCustomers)
		require.Equal(t, expected, actual, "%d customers were created, but got %d", expected, actual)

		for i := range customers {
			requireSameCustomer(t, customers[i], dbCustomers[i])
		}
	}

	t.Logf("find customer by id %s", customerAn.ID)
	{
		dbCustomer, err := customerRps.FindByID(ctx, customerAn.ID)
		require.NoError(t, err, "failed to read customer")
		require.NotNil(t, dbCustomer, "customer was created, but not found in database")
		requireSameCustomer(t, customerAn, dbCustomer)
	}

	t.Log("find customer by phone number and contract number")
	{
		dbCustomer, err := customerRps.FindByPhoneNumber(ctx, customerAn.PhoneNumber)
		require.NoError(t, err, "failed to read customer by phone number")
		require.NotNil(t, dbCustomer, "customer must be found by phone number")
		require.Equal(t, customerAn.ID, dbCustomer.ID)

		dbCustomer, err = customerRps.FindByContractNumber(ctx, "PRU-0001")
		require.NoError(t, err, "failed to read customer by contract number")
		require.NotNil(t, dbCustomer, "customer must be found by contract number")
		require.Equal(t, customerAn.ID, dbCustomer.ID)

		dbCustomer, err = customerRps.FindByContractNumber(ctx, "UNKNOWN-1")
		require.NoError(t, err, "missing contract is not an error")
		require.Nil(t, dbCustomer, "contract doesn't exist but customer was found")
	}

	t.Logf("update customer %s", customerAn.ID)
	{
		err := customerRps.Update(ctx, &customerAnUpd)
		require.NoError(t, err, "failed to update customer")
	}

	t.Logf("find customer by id %s and verify it is updated", customerAn.ID)
	{
		dbCustomer, err := customerRps.FindByID(ctx, customerAn.ID)
		require.NoError(t, err, "failed to read customer")
		require.NotNil(t, dbCustomer, "customer was updated, but not found in database")
		requireSameCustomer(t, &customerAnUpd, dbCustomer)
	}

	t.Log("removed contract number is free again")
	{
		dbCustomer, err := customerRps.FindByContractNumber(ctx, "PRU-0001")
		require.NoError(t, err, "failed to read customer by contract number")
		require.Nil(t, dbCustomer, "contract was removed, but still found")
	}

	t.Logf("delete customer by id %s", customerAn.ID)
	{
		err := customerRps.DeleteByID(ctx, customerAnUpd.ID)
		require.NoError(t, err, "failed to delete customer")
	}

	t.Logf("verify customer %s is deleted", customerAn.ID)
	{
		dbCustomer, err := customerRps.FindByID(ctx, customerAnUpd.ID)
		require.NoError(t, err, "failed to read customer by id")
		require.Nil(t, dbCustomer, "customer was deleted, but still present in database")
	}

	t.Logf("verify %d entries left", len(customers)-1)
	{
		dbCustomers, err := customerRps.FindAll(ctx)
		require.NoError(t, err, "failed to read customers")
		expected := len(customers) - 1
		actual := len(dbCustomers)
		require.Equal(t, expected, actual, "there must be %d customers in database, but got %d", expected, actual)
	}

	t.Log("cleanup remaining customers")
	{
		for _, c := range customers[1:] {
			err := customerRps.DeleteByID(ctx, c.ID)
			require.NoError(t, err, "failed to delete customer")
		}
	}
}
