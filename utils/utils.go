package utils

import (
	"bytes"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/big"
	"mime/multipart"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"fest-central/logging"
	"fest-central/models"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/golang-jwt/jwt"
	"golang.org/x/crypto/bcrypt"
)

func RespondWithError(w http.ResponseWriter, status int, error models.Error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(error); err != nil {
		logging.Log.Errorf("failed to encode error response: %v", err)
	}
}

func ResponseJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "failed to encode JSON", http.StatusInternalServerError)
	}
}

func ComparePasswords(hashedPassword string, password []byte) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), password)
	if err != nil {
		logging.Log.Debugf("password mismatch: %v", err)
		return false
	}
	return true
}

func GenerateToken(user models.User, expiration time.Duration) (string, error) {
	secret := os.Getenv("SECRET")
	if secret == "" {
		return "", errors.New("SECRET environment variable is not set")
	}

	claims := jwt.MapClaims{
		"iss":     "fest-central",
		"user_id": user.ID,
		"role":    user.Role,
		"exp":     time.Now().Add(expiration).Unix(),
		"iat":     time.Now().Unix(),
	}
	if user.Email != "" {
		claims["email"] = user.Email
	} else if user.Login != "" {
		claims["login"] = user.Login
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func GenerateRefreshToken(user models.User, expiration time.Duration) (string, error) {
	secret := os.Getenv("SECRET")
	if secret == "" {
		return "", errors.New("SECRET environment variable is not set")
	}

	claims := jwt.MapClaims{
		"iss":     "fest-central",
		"user_id": user.ID,
		"exp":     time.Now().Add(expiration).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// VerifyToken validates the Bearer token of a request and returns the
// caller's user id.
func VerifyToken(r *http.Request) (int, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return 0, errors.New("Authorization header missing")
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return 0, errors.New("Invalid Authorization header format")
	}

	token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("Unexpected signing method")
		}
		return []byte(os.Getenv("SECRET")), nil
	})
	if err != nil || !token.Valid {
		return 0, errors.New("Invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, errors.New("Invalid token claims")
	}
	userIDFloat, ok := claims["user_id"].(float64)
	if !ok {
		return 0, errors.New("user_id not found in token")
	}
	return int(userIDFloat), nil
}

// RandomCodeLetter draws one unused letter uniformly at random from the
// pool A..A+total-1. Returns an error when every letter is taken.
func RandomCodeLetter(taken map[string]bool, total int) (string, error) {
	if total > 26 {
		total = 26
	}
	var available []string
	for i := 0; i < total; i++ {
		letter := string(rune('A' + i))
		if !taken[letter] {
			available = append(available, letter)
		}
	}
	if len(available) == 0 {
		return "", errors.New("no available code letters left for this program")
	}
	idx, err := rand.Int(rand.Reader, big.NewInt(int64(len(available))))
	if err != nil {
		return "", err
	}
	return available[idx.Int64()], nil
}

func UploadFileToS3(file multipart.File, fileName string, fileType string) (string, error) {
	var bucketName string
	switch fileType {
	case "avatar":
		bucketName = "festcentral-avatars"
	case "participantphoto":
		bucketName = "festcentral-photos"
	case "poster":
		bucketName = "festcentral-posters"
	case "teamlogo":
		bucketName = "festcentral-logos"
	default:
		return "", fmt.Errorf("unknown file type: %s", fileType)
	}

	accessKey := os.Getenv("AWS_ACCESS_KEY_ID")
	secretKey := os.Getenv("AWS_SECRET_ACCESS_KEY")
	region := os.Getenv("AWS_REGION")
	if accessKey == "" || secretKey == "" || region == "" {
		return "", fmt.Errorf("AWS credentials or region not set in environment for %s", fileType)
	}

	sess, err := session.NewSession(&aws.Config{
		Region:      aws.String(region),
		Credentials: credentials.NewStaticCredentials(accessKey, secretKey, ""),
	})
	if err != nil {
		return "", fmt.Errorf("failed to create AWS session: %v", err)
	}
	svc := s3.New(sess)

	buf := new(bytes.Buffer)
	_, err = io.Copy(buf, file)
	if err != nil {
		return "", fmt.Errorf("failed to read file buffer: %v", err)
	}

	_, err = svc.PutObject(&s3.PutObjectInput{
		Bucket: aws.String(bucketName),
		Key:    aws.String(fileName),
		Body:   bytes.NewReader(buf.Bytes()),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file to S3: %v", err)
	}

	url := fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", bucketName, region, fileName)
	return url, nil
}

func DeleteFileFromS3(fileURL string) error {
	accessKey := os.Getenv("AWS_ACCESS_KEY_ID")
	secretKey := os.Getenv("AWS_SECRET_ACCESS_KEY")
	region := os.Getenv("AWS_REGION")

	sess, err := session.NewSession(&aws.Config{
		Region:      aws.String(region),
		Credentials: credentials.NewStaticCredentials(accessKey, secretKey, ""),
	})
	if err != nil {
		return fmt.Errorf("failed to create AWS session: %v", err)
	}
	svc := s3.New(sess)

	// URL shape: https://<bucket>.s3.<region>.amazonaws.com/<key>
	trimmed := strings.TrimPrefix(fileURL, "https://")
	slash := strings.Index(trimmed, "/")
	if slash < 0 {
		return fmt.Errorf("unrecognized S3 URL: %s", fileURL)
	}
	host := trimmed[:slash]
	key := trimmed[slash+1:]
	bucketName := strings.SplitN(host, ".", 2)[0]

	_, err = svc.DeleteObject(&s3.DeleteObjectInput{
		Bucket: aws.String(bucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete file from S3: %v", err)
	}
	return nil
}

func StrToInt(s string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(s))
}
