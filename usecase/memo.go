package usecase

import (
	"multisig/domain"
	"time"
)

const (
	EmergencyMemoKey = "emergency"
)

type MemoInteractor struct {
	memoRepository MemoRepository
}

func NewMemoInteractor(memoRepository MemoRepository) *MemoInteractor {
	interactor := &MemoInteractor{
		memoRepository: memoRepository,
	}
	return interactor
}

func (interactor *MemoInteractor) GetEmergencyLastExecution() (time.Time, error) {
	memo, err := interactor.memoRepository.Find(EmergencyMemoKey)
	if err != nil || memo == nil {
		return time.Time{}, err
	}

	var emergencyMemo domain.EmergencyMemo
	if err := emergencyMemo.FromJson(memo.Memo); err != nil {
		return time.Time{}, err
	}
	return emergencyMemo.LastExecution, nil
}

func (interactor *MemoInteractor) SetEmergencyLastExecution(t time.Time) error {
	emergencyMemo := domain.EmergencyMemo{LastExecution: t}
	_, err := interactor.memoRepository.Upsert(EmergencyMemoKey, &emergencyMemo)
	return err
}
