package cmd

import (
	"database/sql"
	"log"
	"multisig/domain"
	"multisig/domain/config"
	"multisig/infrastructure/dbhandler"
	"multisig/infrastructure/memstore"
	"multisig/interface/exporter"
	"multisig/interface/repository"
	"multisig/usecase"
	"time"

	_ "github.com/lib/pq"
)

func defaultDependencyInject() {
	var err error

	exporter.Init()

	var treasuryRepository usecase.TreasuryRepository
	var proposalRepository usecase.ProposalRepository
	var memoRepository usecase.MemoRepository

	switch config.GetStore() {
	case config.StorePostgres:
		dbPool, err = sql.Open("postgres", config.GetDbUri())
		if err != nil {
			log.Fatal(err)
		}
		dbPool.SetMaxOpenConns(20)
		dbPool.SetMaxIdleConns(5)
		dbPool.SetConnMaxIdleTime(1 * time.Minute)
		dbPool.SetConnMaxLifetime(4 * time.Hour)

		dbHandler = dbhandler.DBHandler{DB: dbPool}

		treasuryRepository = repository.NewTreasuryRepository(dbHandler)
		proposalRepository = repository.NewProposalRepository(dbHandler)
		memoRepository = repository.NewMemoRepository(dbHandler)

	default:
		store := memstore.New()
		treasuryRepository = store.Treasuries()
		proposalRepository = store.Proposals()
		memoRepository = store.Memos()
	}

	policyEngine, err := domain.NewPolicyEngine(config.GetPolicyTiers())
	if err != nil {
		log.Fatalf("Unable to create policy engine - %v\n", err.Error())
	}

	governor = domain.NewEmergencyGovernor(config.GetEmergencyCooldown())

	if config.IsEmergencyCooldownPersisted() {
		memoInteractor = usecase.NewMemoInteractor(memoRepository)
		last, err := memoInteractor.GetEmergencyLastExecution()
		if err != nil {
			log.Fatalf("Unable to restore emergency cooldown - %v\n", err.Error())
		}
		governor.Restore(last)
	}

	authorizationInteractor = usecase.NewAuthorizationInteractor(
		treasuryRepository,
		proposalRepository,
		memoInteractor,
		policyEngine,
		governor,
		usecase.AuthorizationSettings{
			Presign:   config.GetPresign(),
			Precision: config.GetPrecision(),
		})
}

var dbPool *sql.DB
var dbHandler dbhandler.DBHandler
var governor *domain.EmergencyGovernor
var memoInteractor *usecase.MemoInteractor
var authorizationInteractor *usecase.AuthorizationInteractor
