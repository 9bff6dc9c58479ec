package domain

import "fmt"

// Token is a fungible BEP20/ERC20 token the service reports balances for.
type Token string

const (
	TokenNECO  Token = "neco"
	TokenNFISH Token = "nfish"
	TokenBUSD  Token = "busd"
)

func ParseToken(s string) (Token, error) {
	switch t := Token(s); t {
	case TokenNECO, TokenNFISH, TokenBUSD:
		return t, nil
	}
	return "", fmt.Errorf("token %q: %w", s, ErrUnsupportedToken)
}

// ContractType names an entry of the contract address book.
type ContractType string

const (
	ContractNECO            ContractType = "neco"
	ContractNFISH           ContractType = "nfish"
	ContractBUSD            ContractType = "busd"
	ContractNecoNFT         ContractType = "neco_nft"
	ContractNamiLandItemNFT ContractType = "namiland_game_item_nft"
	ContractStakeNecoForFee ContractType = "stake_neco_for_fee"
)

// ContractTypeForToken returns the address book entry of a token contract.
func ContractTypeForToken(t Token) ContractType {
	return ContractType(t)
}

// ContractTypeForCollection returns the ERC1155 contract backing a collection.
func ContractTypeForCollection(c Collection) (ContractType, error) {
	switch c {
	case CollectionNecoFishing:
		return ContractNecoNFT, nil
	case CollectionNamiLand:
		return ContractNamiLandItemNFT, nil
	}
	return "", fmt.Errorf("collection %q: %w", c, ErrUnsupportedCollection)
}

type ERC20Token struct {
	Symbol  string `json:"symbol"`
	Decimal uint8  `json:"decimal"`
	Amount  string `json:"amount"`
}

type StakedInfo struct {
	PublicAddress string `json:"public_address"`
	StakedAmount  string `json:"staked_amount"`
	StakedTime    string `json:"staked_time"`
}
