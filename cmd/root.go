package cmd

import (
	"fmt"
	"io"
	"log"
	"os"

	"bytes"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Embedded default configuration. A .jangbu.yaml in the working directory or
// the home directory overrides it wholesale.
const defaultConfigYAML = `
bank:
  WOORI:
    signature: ["거래일시", "적요", "입금"]
    columns:
      date: 거래일시
      type: 적요
      description: 기재내용
      withdrawal: 지급(원)
      deposit: 입금(원)
      balance: 거래후 잔액(원)
      branch: 취급점
  KOOKMIN:
    signature_date: 거래일시
    signature_parties: ["보낸분", "받는분"]
    columns:
      date: 거래일시
      description: 보낸분/받는분
      withdrawal: 출금액(원)
      deposit: 입금액(원)
      balance: 잔액(원)
guess:
  keywords:
    date: ['날짜', '거래일', '일자', '승인일자', '거래\s*시간']
    description: ['내용', '적요', '거래내용', '가맹점명', '받는.?분', '보내.?는.?분']
    memo: ['메모', '비고']
    deposit: ['입금', '받은금액', 'credit']
    withdrawal: ['출금', '보낸금액', 'debit']
    amount: ['금액', '이체금액', '거래금액']
  balance_columns: ['잔액', '거래후 잔액', '잔액(원)']
normalize:
  vendors:
    - pattern: 'starbucks|스타벅스'
      name: 스타벅스
    - pattern: 'gs\s?25|지에스25'
      name: GS25
    - pattern: 'cu\s?편의점|씨유'
      name: CU
    - pattern: 'emart24|이마트24'
      name: 이마트24
    - pattern: 'seven\s*eleven|세븐일레븐|7-?11'
      name: 세븐일레븐
    - pattern: 'coupang|쿠팡'
      name: 쿠팡
    - pattern: 'naver\s?pay|네이버페이'
      name: 네이버페이
    - pattern: 'kakao\s?pay|카카오페이'
      name: 카카오페이`

var (
	cfgFile string
	verbose bool
	rootCmd = &cobra.Command{
		Use:   "jangbu [filename]",
		Short: "Normalize Korean bank statement spreadsheets",
		Long:  `jangbu turns messy bank statement exports (xlsx, xls, csv) into uniform, classified transaction records`,
		Args:  cobra.ArbitraryArgs,
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) == 1 {
				viper.Set("target", args[0])
				handler(parseCmd, []string{})
				return
			}
			cmd.Help()
		},
	}
)

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig, initLogging)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (default is ./.jangbu.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

func initLogging() {
	if !verbose {
		log.SetOutput(io.Discard)
	} else {
		log.SetFlags(log.Ltime | log.Lmsgprefix)
		log.SetPrefix("INFO: ")
	}
}

func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Current directory first, then home
		viper.AddConfigPath(".")
		viper.AddConfigPath(home)
		viper.SetConfigName(".jangbu")
		viper.SetConfigType("yaml")
	}

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// No config file found, use embedded default configuration
			if err := viper.ReadConfig(bytes.NewBufferString(defaultConfigYAML)); err != nil {
				fmt.Printf("Error loading embedded configuration: %v\n", err)
				os.Exit(1)
			}
		} else {
			fmt.Printf("Error reading config file: %v\n", err)
			os.Exit(1)
		}
	}
}
