package usecase

// WithGenerator returns a copy of uc that draws code values from gen.
func (uc *WithdrawalCodeUseCase) WithGenerator(gen func() (string, error)) *WithdrawalCodeUseCase {
	c := *uc
	c.generate = gen
	return &c
}
